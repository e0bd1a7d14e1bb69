package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
)

// mountResourceRoutes wires the marketplace records the workflow hangs off:
// candidates, employers, jobs, applications, interviews, assessments and
// staff users. These stay thin; the interesting logic lives in the check-in
// and placement paths.
func mountResourceRoutes(admin *gin.RouterGroup) {
	admin.POST("/candidates", createCandidateHandler())
	admin.GET("/candidates", listCandidatesHandler())
	admin.GET("/candidates/:id", getCandidateHandler())
	admin.PUT("/candidates/:id", updateCandidateHandler())
	admin.DELETE("/candidates/:id", deleteCandidateHandler())
	admin.GET("/candidates/:id/assessments", listAssessmentsHandler())

	admin.POST("/employers", createEmployerHandler())
	admin.GET("/employers", listEmployersHandler())
	admin.GET("/employers/:id", getEmployerHandler())
	admin.PUT("/employers/:id", updateEmployerHandler())
	admin.DELETE("/employers/:id", deleteEmployerHandler())

	admin.POST("/jobs", createJobHandler())
	admin.GET("/jobs", listJobsHandler())
	admin.GET("/jobs/:id", getJobHandler())
	admin.PUT("/jobs/:id", updateJobHandler())
	admin.PATCH("/jobs/:id/status", updateJobStatusHandler())
	admin.DELETE("/jobs/:id", deleteJobHandler())

	admin.POST("/applications", createApplicationHandler())
	admin.GET("/applications", listApplicationsHandler())
	admin.GET("/applications/:id", getApplicationHandler())
	admin.PATCH("/applications/:id/status", updateApplicationStatusHandler())

	admin.POST("/interviews", createInterviewHandler())
	admin.GET("/interviews", listInterviewsHandler())
	admin.GET("/interviews/:id", getInterviewHandler())
	admin.PATCH("/interviews/:id/status", updateInterviewStatusHandler())

	admin.POST("/assessments", createAssessmentHandler())

	admin.POST("/users", createUserHandler())
	admin.GET("/users", listUsersHandler())
	admin.GET("/users/:id", getUserHandler())
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// --- candidates ---

func createCandidateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCandidate
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "invalid candidate body")
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		candidate, err := models.CreateCandidate(c.Request.Context(), db, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, candidate)
	}
}

func listCandidatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.CandidateFilter
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
		candidates, pageInfo, err := models.ListCandidates(c.Request.Context(), db, filter, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": candidates, "page_info": pageInfo})
	}
}

func getCandidateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		candidate, err := models.GetCandidate(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, candidate)
	}
}

func updateCandidateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewCandidate
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		candidate, err := models.UpdateCandidate(c.Request.Context(), db, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, candidate)
	}
}

func deleteCandidateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		candidate, err := models.DeleteCandidate(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": candidate.ID})
	}
}

// --- employers ---

func createEmployerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewEmployer
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employer body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		employer, err := models.CreateEmployer(c.Request.Context(), db, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, employer)
	}
}

func listEmployersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter struct {
			IsActive *bool `form:"is_active"`
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
		employers, pageInfo, err := models.ListEmployers(c.Request.Context(), db, filter.IsActive, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": employers, "page_info": pageInfo})
	}
}

func getEmployerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		employer, err := models.GetEmployer(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, employer)
	}
}

func updateEmployerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewEmployer
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employer body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		employer, err := models.UpdateEmployer(c.Request.Context(), db, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, employer)
	}
}

func deleteEmployerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		employer, err := models.DeleteEmployer(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": employer.ID})
	}
}

// --- jobs ---

func createJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewJob
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		job, err := models.CreateJob(c.Request.Context(), db, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

func listJobsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.JobFilter
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
		jobs, pageInfo, err := models.ListJobs(c.Request.Context(), db, filter, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": jobs, "page_info": pageInfo})
	}
}

func getJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		job, err := models.GetJob(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

func updateJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewJob
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		job, err := models.UpdateJob(c.Request.Context(), db, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

type jobStatusRequest struct {
	Status models.JobStatus `json:"status" binding:"required"`
}

func updateJobStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req jobStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		job, err := models.UpdateJobStatus(c.Request.Context(), db, id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

func deleteJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		job, err := models.DeleteJob(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": job.ID})
	}
}

// --- applications ---

func createApplicationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewApplication
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		application, err := models.CreateApplication(c.Request.Context(), db, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, application)
	}
}

func listApplicationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ApplicationFilter
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
		applications, pageInfo, err := models.ListApplications(c.Request.Context(), db, filter, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": applications, "page_info": pageInfo})
	}
}

func getApplicationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		application, err := models.GetApplication(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, application)
	}
}

type applicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

func updateApplicationStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req applicationStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		application, err := models.UpdateApplicationStatus(c.Request.Context(), db, id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, application)
	}
}

// --- interviews ---

func createInterviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewInterview
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interview body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		interview, err := models.CreateInterview(c.Request.Context(), db, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, interview)
	}
}

func listInterviewsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter struct {
			ApplicationId *int `form:"application_id"`
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
		interviews, pageInfo, err := models.ListInterviews(c.Request.Context(), db, filter.ApplicationId, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": interviews, "page_info": pageInfo})
	}
}

func getInterviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		interview, err := models.GetInterview(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, interview)
	}
}

type interviewStatusRequest struct {
	Status models.InterviewStatus `json:"status" binding:"required"`
	Notes  *string                `json:"notes"`
}

func updateInterviewStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req interviewStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		interview, err := models.UpdateInterviewStatus(c.Request.Context(), db, id, req.Status, req.Notes)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, interview)
	}
}

// --- assessments ---

func createAssessmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewAssessment
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assessment body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		assessment, err := models.CreateAssessment(c.Request.Context(), db, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, assessment)
	}
}

func listAssessmentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		assessments, err := models.ListAssessments(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": assessments})
	}
}

// --- users ---

func createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user body: " + err.Error()})
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		user, err := models.CreateUser(c.Request.Context(), db, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func listUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := requestDB(c)
		if !ok {
			return
		}
		users, err := models.GetAllUsers(c.Request.Context(), db)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": users})
	}
}

func getUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		user, err := models.GetUser(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// --- notifications (session user) ---

func listNotificationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok || userId == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
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
		user, err := models.GetUser(c.Request.Context(), db, userId)
		if err != nil {
			respondError(c, err)
			return
		}
		email := utils.DereferencePtr(user.Email, "")
		notifications, pageInfo, err := models.ListNotifications(c.Request.Context(), db, email, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": notifications, "page_info": pageInfo})
	}
}

func markNotificationReadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok || userId == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		db, ok := requestDB(c)
		if !ok {
			return
		}
		// Admins may clear any recipient's row; everyone else only their own.
		recipientEmail := ""
		if isAdmin, _ := utils.GetIsAdminFromContext(c.Request.Context()); !isAdmin {
			user, err := models.GetUser(c.Request.Context(), db, userId)
			if err != nil {
				respondError(c, err)
				return
			}
			recipientEmail = utils.DereferencePtr(user.Email, "")
			if recipientEmail == "" {
				// No email on file means no notifications can belong to them.
				respondError(c, utils.ErrorRecordNotFound)
				return
			}
		}
		notification, err := models.MarkNotificationRead(c.Request.Context(), db, id, recipientEmail)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, notification)
	}
}
