package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
)

type eventReplayRequest struct {
	RecordId int `json:"record_id"`
}

// eventReplayHandler re-queues an outbox row the dispatcher gave up on.
// Only FAILED and DEAD rows are eligible; the row goes back to FAILED with
// an immediate next attempt so the dispatcher picks it up on its next poll.
func eventReplayHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req eventReplayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.RecordId <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "record_id is required"})
			return
		}

		db, ok := requestDB(c)
		if !ok {
			return
		}
		now := time.Now().UTC()
		res := db.WithContext(c.Request.Context()).
			Model(&models.EventRecord{}).
			Where("id = ? AND publish_status IN ?", req.RecordId, []string{
				models.EventPublishStatusFailed,
				models.EventPublishStatusDead,
			}).
			Updates(map[string]interface{}{
				"publish_status":     models.EventPublishStatusFailed,
				"next_attempt_at":    &now,
				"locked_at":          nil,
				"locked_by":          nil,
				"last_publish_error": nil,
			})
		if res.Error != nil {
			respondError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no FAILED or DEAD outbox record with that id"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"record_id":       req.RecordId,
			"publish_status":  models.EventPublishStatusFailed,
			"next_attempt_at": now.Format(time.RFC3339Nano),
		})
	}
}
