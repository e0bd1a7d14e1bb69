package workflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"

	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
)

var defaultCadence = []int{7, 30, 60}

func introWithCheckIns(introducedAt time.Time, checkIns ...*models.CheckIn) *models.Introduction {
	return &models.Introduction{
		ID:           1,
		Status:       models.IntroductionStatusIntroduced,
		IntroducedAt: introducedAt,
		CheckIns:     checkIns,
	}
}

func sentCheckIn(number int, scheduledFor, sentAt time.Time) *models.CheckIn {
	return &models.CheckIn{
		CheckInNumber: number,
		ScheduledFor:  scheduledFor,
		SentAt:        &sentAt,
	}
}

func respondedCheckIn(number int, scheduledFor, sentAt, respondedAt time.Time) *models.CheckIn {
	c := sentCheckIn(number, scheduledFor, sentAt)
	c.RespondedAt = &respondedAt
	return c
}

func TestNextDueCheckIn_FirstCheckInAtSevenDays(t *testing.T) {
	introducedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	intro := introWithCheckIns(introducedAt)

	if due := NextDueCheckIn(intro, defaultCadence, introducedAt.Add(6*24*time.Hour)); due != nil {
		t.Fatalf("nothing is due on day 6, got check-in #%d", due.Number)
	}

	due := NextDueCheckIn(intro, defaultCadence, introducedAt.Add(7*24*time.Hour))
	if due == nil {
		t.Fatal("check-in #1 is due on day 7")
	}
	if due.Number != 1 {
		t.Fatalf("expected check-in #1, got #%d", due.Number)
	}
	if !due.DueAt.Equal(introducedAt.Add(7 * 24 * time.Hour)) {
		t.Fatalf("expected due at introducedAt+7d, got %s", due.DueAt)
	}
	if due.Resume != nil {
		t.Fatal("a fresh check-in is not a resume")
	}
}

func TestNextDueCheckIn_PendingReplyBlocksTheNext(t *testing.T) {
	introducedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day7 := introducedAt.Add(7 * 24 * time.Hour)
	intro := introWithCheckIns(introducedAt, sentCheckIn(1, day7, day7))

	// Day 40: #2 would be past due, but #1 is still unanswered.
	if due := NextDueCheckIn(intro, defaultCadence, introducedAt.Add(40*24*time.Hour)); due != nil {
		t.Fatalf("an unanswered check-in must block the next, got #%d", due.Number)
	}
}

func TestNextDueCheckIn_AdvancesAfterResponse(t *testing.T) {
	introducedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day7 := introducedAt.Add(7 * 24 * time.Hour)
	intro := introWithCheckIns(introducedAt,
		respondedCheckIn(1, day7, day7, day7.Add(24*time.Hour)))

	if due := NextDueCheckIn(intro, defaultCadence, introducedAt.Add(29*24*time.Hour)); due != nil {
		t.Fatalf("check-in #2 is not due until day 30, got #%d", due.Number)
	}

	due := NextDueCheckIn(intro, defaultCadence, introducedAt.Add(30*24*time.Hour))
	if due == nil {
		t.Fatal("check-in #2 is due on day 30")
	}
	if due.Number != 2 {
		t.Fatalf("expected check-in #2, got #%d", due.Number)
	}
	if !due.DueAt.Equal(introducedAt.Add(30 * 24 * time.Hour)) {
		t.Fatalf("expected due at introducedAt+30d, got %s", due.DueAt)
	}
}

func TestNextDueCheckIn_CadenceExhausted(t *testing.T) {
	introducedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day7 := introducedAt.Add(7 * 24 * time.Hour)
	day30 := introducedAt.Add(30 * 24 * time.Hour)
	day60 := introducedAt.Add(60 * 24 * time.Hour)
	intro := introWithCheckIns(introducedAt,
		respondedCheckIn(1, day7, day7, day7),
		respondedCheckIn(2, day30, day30, day30),
		respondedCheckIn(3, day60, day60, day60))

	if due := NextDueCheckIn(intro, defaultCadence, introducedAt.Add(1000*24*time.Hour)); due != nil {
		t.Fatalf("three answered check-ins exhaust the cadence, got #%d", due.Number)
	}
}

func TestNextDueCheckIn_ResumesUndispatchedRow(t *testing.T) {
	// A run that died between INSERT and send leaves a row with no sent_at.
	introducedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day7 := introducedAt.Add(7 * 24 * time.Hour)
	stranded := &models.CheckIn{ID: 42, CheckInNumber: 1, ScheduledFor: day7}
	intro := introWithCheckIns(introducedAt, stranded)

	due := NextDueCheckIn(intro, defaultCadence, introducedAt.Add(8*24*time.Hour))
	if due == nil {
		t.Fatal("the stranded row should be picked back up")
	}
	if due.Resume != stranded {
		t.Fatal("expected the existing row, not a new one")
	}
	if due.Number != 1 {
		t.Fatalf("expected check-in #1, got #%d", due.Number)
	}
}

func TestNextDueCheckIn_PicksLatestByNumber(t *testing.T) {
	// Preload order is not load-bearing; the highest number decides.
	introducedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day7 := introducedAt.Add(7 * 24 * time.Hour)
	day30 := introducedAt.Add(30 * 24 * time.Hour)
	intro := introWithCheckIns(introducedAt,
		sentCheckIn(2, day30, day30),
		respondedCheckIn(1, day7, day7, day7))

	if due := NextDueCheckIn(intro, defaultCadence, introducedAt.Add(70*24*time.Hour)); due != nil {
		t.Fatalf("#2 is sent and unanswered, nothing is due, got #%d", due.Number)
	}
}

func TestNextDueCheckIn_CustomCadence(t *testing.T) {
	introducedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	intro := introWithCheckIns(introducedAt)

	due := NextDueCheckIn(intro, []int{1}, introducedAt.Add(25*time.Hour))
	if due == nil || due.Number != 1 {
		t.Fatalf("one-day cadence should owe #1 after a day, got %+v", due)
	}

	intro = introWithCheckIns(introducedAt,
		respondedCheckIn(1, introducedAt.Add(24*time.Hour), introducedAt.Add(24*time.Hour), introducedAt.Add(25*time.Hour)))
	if due := NextDueCheckIn(intro, []int{1}, introducedAt.Add(48*time.Hour)); due != nil {
		t.Fatalf("single-entry cadence is exhausted after #1, got #%d", due.Number)
	}
}

func TestBuildCheckInEmail(t *testing.T) {
	introducedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	intro := &models.Introduction{
		IntroducedAt: introducedAt,
		Candidate: &models.Candidate{
			FirstName: "Aye",
			LastName:  "Chan",
			Email:     "aye.chan@example.com",
		},
		Employer: &models.Employer{CompanyName: "Golden Lotus Tech"},
		Job:      &models.Job{Title: "Backend Engineer"},
	}
	checkIn := &models.CheckIn{CheckInNumber: 2}

	email, err := buildCheckInEmail(intro, checkIn, "tok123")
	if err != nil {
		t.Fatalf("buildCheckInEmail: %v", err)
	}
	if email.CandidateEmail != "aye.chan@example.com" {
		t.Fatalf("unexpected recipient %q", email.CandidateEmail)
	}
	if email.CandidateName != "Aye Chan" {
		t.Fatalf("unexpected candidate name %q", email.CandidateName)
	}
	if email.EmployerCompanyName != "Golden Lotus Tech" {
		t.Fatalf("unexpected employer %q", email.EmployerCompanyName)
	}
	if email.JobTitle != "Backend Engineer" {
		t.Fatalf("unexpected job title %q", email.JobTitle)
	}
	if email.CheckInNumber != 2 || email.ResponseToken != "tok123" {
		t.Fatalf("check-in number/token not carried: %+v", email)
	}
}

func TestBuildCheckInEmail_RequiresLoadedChain(t *testing.T) {
	intro := &models.Introduction{Candidate: &models.Candidate{Email: "x@example.com"}}
	if _, err := buildCheckInEmail(intro, &models.CheckIn{CheckInNumber: 1}, "tok"); err == nil {
		t.Fatal("missing employer should be an error, not a blank email")
	}
	if _, err := buildCheckInEmail(nil, &models.CheckIn{CheckInNumber: 1}, "tok"); err == nil {
		t.Fatal("nil introduction should be an error")
	}

	// The job is optional; introductions do not have to name a posting.
	intro = &models.Introduction{
		Candidate: &models.Candidate{FirstName: "Mg", LastName: "Mg", Email: "mg@example.com"},
		Employer:  &models.Employer{CompanyName: "Acme"},
	}
	email, err := buildCheckInEmail(intro, &models.CheckIn{CheckInNumber: 1}, "tok")
	if err != nil {
		t.Fatalf("job-less introduction should build: %v", err)
	}
	if email.JobTitle != "" {
		t.Fatalf("expected empty job title, got %q", email.JobTitle)
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	// Two scheduler instances racing on the same introduction lose to the
	// unique index; 1062 is the only error treated as "someone else won".
	dup := &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}
	if !isDuplicateKeyErr(dup) {
		t.Fatal("1062 should read as a duplicate key")
	}
	if !isDuplicateKeyErr(fmt.Errorf("create check-in: %w", dup)) {
		t.Fatal("wrapped 1062 should still read as a duplicate key")
	}
	if isDuplicateKeyErr(&mysqlDriver.MySQLError{Number: 1452}) {
		t.Fatal("other MySQL errors are not duplicates")
	}
	if isDuplicateKeyErr(errors.New("connection refused")) {
		t.Fatal("non-MySQL errors are not duplicates")
	}
}

func TestSchedulerDefaults(t *testing.T) {
	s := NewCheckInScheduler(nil, nil, nil)
	if len(s.Cadence) != 3 || s.Cadence[0] != 7 || s.Cadence[1] != 30 || s.Cadence[2] != 60 {
		t.Fatalf("default cadence should be 7/30/60 days, got %v", s.Cadence)
	}
	if s.TokenTTL != 14*24*time.Hour {
		t.Fatalf("default token TTL should be 14 days, got %s", s.TokenTTL)
	}
	if s.RunnerID == "" {
		t.Fatal("runner id should be assigned")
	}
}
