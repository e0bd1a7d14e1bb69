// run-checkin-scheduler executes one check-in scheduler pass and exits.
// It is the CLI twin of POST /checkins/run-scheduler for environments that
// drive the cadence from cron instead of Cloud Scheduler, and for manual
// catch-up runs after an incident.
//
// The run result is printed as JSON on stdout. Exit codes:
//   0  pass completed, no per-introduction errors
//   1  fatal error (could not connect, could not read the eligible set)
//   2  pass completed but some introductions failed (see errors in output)
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... MAIL_DRIVER=log go run ./cmd/run-checkin-scheduler
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
	"github.com/sohaibtahir00/job-portal-backend-sub003/mailer"
	"github.com/sohaibtahir00/job-portal-backend-sub003/workflow"
)

func main() {
	ctx := context.Background()
	logger := config.GetLogger()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	m, err := mailer.FromEnv(ctx, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build mailer: %v\n", err)
		os.Exit(1)
	}

	scheduler := workflow.NewCheckInScheduler(db, m, logger)
	result, err := scheduler.RunOnce(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scheduler pass failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "%d introduction(s) failed during the pass\n", len(result.Errors))
		os.Exit(2)
	}
}
