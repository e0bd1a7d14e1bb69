package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
	"github.com/sohaibtahir00/job-portal-backend-sub003/models/reports"
)

func circumventionStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := requestDB(c)
		if !ok {
			return
		}
		stats, err := models.GetCircumventionStats(c.Request.Context(), db)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func listCircumventionFlagsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.CircumventionFlagFilter
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
		flags, pageInfo, err := models.ListCircumventionFlags(c.Request.Context(), db, filter, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": flags, "page_info": pageInfo})
	}
}

func createCircumventionFlagHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCircumventionFlag
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flag body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		flag, err := models.CreateCircumventionFlag(c.Request.Context(), db, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, flag)
	}
}

func updateCircumventionFlagHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flag id"})
			return
		}
		var input models.CircumventionFlagStatusUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		flag, err := models.UpdateCircumventionFlagStatus(c.Request.Context(), db, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, flag)
	}
}

// exportCircumventionFlagsHandler streams the flag ledger as a spreadsheet
// for the finance team's collection workflow. The workbook is built before
// any byte goes out so query failures still produce a JSON error.
func exportCircumventionFlagsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requestDB(c); !ok {
			return
		}
		f, err := reports.BuildCircumventionFlagExcel(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		filename := "circumvention-flags-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+filename)
		if err := f.Write(c.Writer); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}
