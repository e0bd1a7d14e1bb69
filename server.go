package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
	"github.com/sohaibtahir00/job-portal-backend-sub003/mailer"
	"github.com/sohaibtahir00/job-portal-backend-sub003/middlewares"
	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"github.com/sohaibtahir00/job-portal-backend-sub003/workflow"
)

const defaultPort = "8080"

var tracer = otel.Tracer("talentbridge-backend")

// RateLimiter struct to hold the Redis client and rate limit settings.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

// shouldRunEventDispatcher reports whether the outbox dispatcher loop runs
// in this process.
//
// Default: on. The dispatcher is the only thing that moves EventRecord rows
// from PENDING to SENT; without it the outbox just accumulates. Local setups
// without Pub/Sub credentials set EVENT_DISPATCHER_ENABLED=false so the log
// is not flooded with publish failures (rows stay PENDING and are picked up
// once a dispatcher runs against the same database).
func shouldRunEventDispatcher() bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv("EVENT_DISPATCHER_ENABLED")))
	if val == "false" {
		return false
	}
	return true
}

// respondError maps the error taxonomy onto HTTP statuses: missing records
// are 404, validation and state-machine rejections are 400, downstream
// dependency failures and everything unclassified are 500. Every 5xx is
// logged with the request's correlation id.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, utils.ErrorValidation),
		errors.Is(err, utils.ErrorInvalidTransition),
		errors.Is(err, utils.ErrorTokenExpired),
		errors.Is(err, utils.ErrorTokenUsed):
		status = http.StatusBadRequest
	case errors.Is(err, utils.ErrorDownstream):
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(config.GetLogger(), "http", c.FullPath(), "request failed", cid, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondBindError turns a binding failure into a 400. Field-level
// validation failures additionally carry a field->rule map so the console
// can highlight the offending inputs.
func respondBindError(c *gin.Context, err error, msg string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "fields": utils.ProcessValidationErrors(verrs)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msg + ": " + err.Error()})
}

// requestDB hands back the shared GORM handle, failing the request when the
// database has not connected yet (the port opens before dependencies do).
func requestDB(c *gin.Context) (*gorm.DB, bool) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database is not ready"})
		return nil, false
	}
	return db, true
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination.
	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Outbound email transport. Built before the router so handlers never
	// observe a half-initialized mailer; a broken MAIL_DRIVER degrades to the
	// log driver rather than taking the service down.
	checkInMailer, err := mailer.FromEnv(context.Background(), logger)
	if err != nil {
		config.LogError(logger, "main", "main", "mailer init failed; falling back to log driver", os.Getenv("MAIL_DRIVER"), err)
		checkInMailer = mailer.NewLogMailer(logger)
	}

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, we return 503 for app endpoints.
	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness.
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/readyz", func(c *gin.Context) {
		// The readiness middleware above already returned 503 when a
		// dependency was missing, so reaching the handler means ready.
		c.Status(http.StatusNoContent)
	})

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.AuthMiddleware())
	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	// Session + public routes.
	r.POST("/auth/login", loginHandler())
	r.POST("/auth/logout", logoutHandler())
	r.GET("/auth/me", meHandler())
	r.POST("/auth/change-password", changePasswordHandler())
	// Candidate-facing: the emailed link carries the single-use token, no session.
	r.POST("/checkins/respond/:token", respondCheckInHandler())
	r.GET("/notifications", listNotificationsHandler())
	r.POST("/notifications/:id/read", markNotificationReadHandler())

	// Everything below is staff tooling.
	admin := r.Group("", middlewares.RequireAdmin())

	admin.POST("/checkins/run-scheduler", runSchedulerHandler(checkInMailer))
	admin.POST("/checkins/:id/resend", resendCheckInHandler(checkInMailer))
	admin.GET("/checkins", listCheckInsHandler())
	admin.GET("/checkins/:id", getCheckInHandler())
	admin.PATCH("/checkins/:id", reviewCheckInHandler())

	admin.GET("/circumvention/stats", circumventionStatsHandler())
	admin.GET("/circumvention/flags", listCircumventionFlagsHandler())
	admin.POST("/circumvention/flags", createCircumventionFlagHandler())
	admin.PATCH("/circumvention/flags/:id", updateCircumventionFlagHandler())
	admin.GET("/circumvention/flags/export", exportCircumventionFlagsHandler())

	admin.POST("/placements", createPlacementHandler())
	admin.GET("/placements", listPlacementsHandler())
	admin.GET("/placements/:id", getPlacementHandler())
	admin.POST("/placements/:id/payments", recordPlacementPaymentHandler())
	admin.POST("/placements/:id/cancel", cancelPlacementHandler())

	admin.POST("/introductions", createIntroductionHandler())
	admin.GET("/introductions", listIntroductionsHandler())
	admin.GET("/introductions/:id", getIntroductionHandler())
	admin.PATCH("/introductions/:id/status", updateIntroductionStatusHandler())

	mountResourceRoutes(admin)

	// Ops tooling (admin only): replay outbox events that were marked DEAD/FAILED.
	admin.POST("/events/replay", eventReplayHandler())

	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	// Now DB is ready; run migrations.
	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// IMPORTANT: AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Background workers share one cancellation signal.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	// Outbox dispatcher (publishes AFTER commit).
	if shouldRunEventDispatcher() {
		go workflow.NewEventDispatcher(db, logger).Run(workerCtx)
	} else {
		logger.WithFields(logrus.Fields{"field": "EventDispatcher"}).Warn("EVENT_DISPATCHER_ENABLED=false; outbox rows stay PENDING")
	}

	// In-process scheduler ticker. Off by default: most deployments trigger
	// runs through POST /checkins/run-scheduler from Cloud Scheduler instead.
	if config.CheckInSchedulerLoop() {
		scheduler := workflow.NewCheckInScheduler(db, checkInMailer, logger)
		if rdb := config.GetRedisLock(); rdb != nil {
			scheduler.Locker = rdb
		}
		go scheduler.Run(workerCtx)
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop background workers first so they don't start new work while we're draining.
	cancelWorkers()

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	// Get the IP address or user identifier from the request.
	key := c.ClientIP() // Assuming IP-based rate limiting

	// Check if the key exists in Redis.
	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the key doesn't exist, create it and set expiry.
	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	// If the key exists, get the current count.
	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the count exceeds the limit, return an error response.
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
