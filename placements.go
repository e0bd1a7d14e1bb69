package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
)

func createPlacementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPlacement
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "invalid placement body")
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		placement, err := models.CreatePlacement(c.Request.Context(), db, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, placement)
	}
}

func getPlacementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid placement id"})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		placement, err := models.GetPlacementDetail(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, placement)
	}
}

func listPlacementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter struct {
			Status *models.PlacementStatus `form:"status"`
		}
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
		placements, pageInfo, err := models.ListPlacements(c.Request.Context(), db, filter.Status, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": placements, "page_info": pageInfo})
	}
}

type placementPaymentRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// recordPlacementPaymentHandler marks a fee installment received. The two
// milestones are explicit stages rather than amounts, so a payment can never
// drift from the frozen fee breakdown.
func recordPlacementPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid placement id"})
			return
		}
		var req placementPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stage is required (upfront or remaining)"})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}

		var placement *models.Placement
		switch req.Stage {
		case "upfront":
			placement, err = models.RecordUpfrontPayment(c.Request.Context(), db, id)
		case "remaining":
			placement, err = models.RecordRemainingPayment(c.Request.Context(), db, id)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "stage must be upfront or remaining"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, placement)
	}
}

func cancelPlacementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid placement id"})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		placement, err := models.CancelPlacement(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, placement)
	}
}
