package config

import (
	"os"
	"strings"
)

// CheckInExpirySweep controls whether each scheduler run first finalizes
// expired, unanswered check-ins as "no_response" before creating new ones.
// Stale rows are still finalized lazily on admin reads when this is off.
//
// Set via env:
// - CHECKIN_EXPIRY_SWEEP=false to disable (default on)
func CheckInExpirySweep() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("CHECKIN_EXPIRY_SWEEP")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// CheckInSchedulerLoop enables the in-process ticker that runs the check-in
// scheduler periodically. Off by default: deployments that trigger runs via
// POST /checkins/run-scheduler (Cloud Scheduler, cron) keep it disabled.
//
// Set via env:
// - CHECKIN_SCHEDULER_LOOP=true
func CheckInSchedulerLoop() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("CHECKIN_SCHEDULER_LOOP")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
