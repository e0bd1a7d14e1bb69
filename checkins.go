package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
	"github.com/sohaibtahir00/job-portal-backend-sub003/mailer"
	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
	"github.com/sohaibtahir00/job-portal-backend-sub003/workflow"
)

// runSchedulerHandler triggers one scheduler pass. Cloud Scheduler (or an
// operator) calls this; deployments with CHECKIN_SCHEDULER_LOOP=true get the
// same pass from the in-process ticker. Both paths are idempotent, so
// overlap is harmless.
func runSchedulerHandler(m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := requestDB(c)
		if !ok {
			return
		}
		// The span parents every query otelgorm records during the pass.
		ctx, span := tracer.Start(c.Request.Context(), "checkins.run-scheduler")
		defer span.End()

		scheduler := workflow.NewCheckInScheduler(db, m, config.GetLogger())
		result, err := scheduler.RunOnce(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func resendCheckInHandler(m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check-in id"})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		checkIn, err := workflow.ResendCheckIn(c.Request.Context(), db, m, id)
		if err != nil {
			respondError(c, err)
			return
		}
		sentTo := ""
		if checkIn.Introduction != nil && checkIn.Introduction.Candidate != nil {
			sentTo = checkIn.Introduction.Candidate.Email
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"checkIn": gin.H{
				"id":            checkIn.ID,
				"checkInNumber": checkIn.CheckInNumber,
				"sentTo":        sentTo,
				"sentAt":        checkIn.SentAt,
			},
		})
	}
}

func getCheckInHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check-in id"})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		checkIn, err := models.GetCheckInDetail(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, checkIn)
	}
}

func listCheckInsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.CheckInFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter: " + err.Error()})
			return
		}
		var page models.PageParams
		if err := c.ShouldBindQuery(&page); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		checkIns, pageInfo, err := models.ListCheckIns(c.Request.Context(), db, filter, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": checkIns, "page_info": pageInfo})
	}
}

func reviewCheckInHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check-in id"})
			return
		}
		var input models.CheckInReview
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		checkIn, err := models.ApplyCheckInReview(c.Request.Context(), db, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, checkIn)
	}
}

// respondCheckInHandler is the candidate-facing intake behind the emailed
// link. It deliberately echoes only what the candidate submitted; risk
// classification stays internal.
func respondCheckInHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		var input workflow.CheckInResponse
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid response body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		checkIn, err := workflow.ProcessCheckInResponse(c.Request.Context(), db, token, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"response_type": checkIn.ResponseType,
			"responded_at":  checkIn.RespondedAt,
		})
	}
}
