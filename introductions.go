package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
)

func createIntroductionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewIntroduction
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "invalid introduction body")
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		introduction, err := models.CreateIntroduction(c.Request.Context(), db, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, introduction)
	}
}

func getIntroductionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid introduction id"})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		introduction, err := models.GetIntroductionDetail(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, introduction)
	}
}

func listIntroductionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter struct {
			Status     *models.IntroductionStatus `form:"status"`
			EmployerId *int                       `form:"employer_id"`
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
		introductions, pageInfo, err := models.ListIntroductions(c.Request.Context(), db, filter.Status, filter.EmployerId, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": introductions, "page_info": pageInfo})
	}
}

type introductionStatusRequest struct {
	Status models.IntroductionStatus `json:"status" binding:"required"`
}

func updateIntroductionStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid introduction id"})
			return
		}
		var req introductionStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		introduction, err := models.UpdateIntroductionStatus(c.Request.Context(), db, id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, introduction)
	}
}
