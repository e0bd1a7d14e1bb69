package models_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
	"github.com/sohaibtahir00/job-portal-backend-sub003/mailer"
	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"github.com/sohaibtahir00/job-portal-backend-sub003/workflow"
)

// Check-in flow regression harness.
//
// Covers the whole loop against a real MySQL: scheduler creates and sends the
// cadence, a send failure is retried without duplicating rows, responses are
// classified, a reported hire with no placement opens a circumvention flag
// exactly once, the placement freezes the fee split, and expiry finalizes
// silent check-ins as no_response.
//
// Usage (requires Docker): INTEGRATION_TESTS=1 go test ./models -run CheckInFlow -v

// recordingMailer captures outgoing check-in emails and can be told to fail
// for specific recipients, standing in for a bouncing mailbox.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []mailer.CheckInEmail
	failFor map[string]string
}

func (m *recordingMailer) SendCheckInEmail(ctx context.Context, email mailer.CheckInEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.failFor[email.CandidateEmail]; ok {
		return errors.New(msg)
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) heal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFor = map[string]string{}
}

func (m *recordingMailer) sentTo(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.sent {
		if e.CandidateEmail == email {
			n++
		}
	}
	return n
}

func TestCheckInFlow_ScheduleRespondFlagPlace(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisTestContainer(t)
	t.Cleanup(func() { _ = dockerRemoveForce(redisName) })

	mysqlName, mysqlPort := startMySQLTestContainer(t)
	t.Cleanup(func() { _ = dockerRemoveForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "talentbridge_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	db := config.GetDB()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	// --- Fixtures -------------------------------------------------------

	salaryMax := decimal.NewFromInt(10000000)
	senior := models.ExperienceLevelSenior

	candA, err := models.CreateCandidate(ctx, db, &models.NewCandidate{
		FirstName:       "Aye",
		LastName:        "Chan",
		Email:           "aye.chan@example.com",
		ExperienceLevel: &senior,
	})
	if err != nil {
		t.Fatalf("CreateCandidate A: %v", err)
	}
	candB, err := models.CreateCandidate(ctx, db, &models.NewCandidate{
		FirstName: "Kyaw",
		LastName:  "Min",
		Email:     "kyaw.min@example.com",
	})
	if err != nil {
		t.Fatalf("CreateCandidate B: %v", err)
	}

	employer, err := models.CreateEmployer(ctx, db, &models.NewEmployer{
		CompanyName:  "Golden Lotus Tech",
		ContactName:  "Daw Su",
		ContactEmail: "su@goldenlotus.example.com",
	})
	if err != nil {
		t.Fatalf("CreateEmployer: %v", err)
	}

	job, err := models.CreateJob(ctx, db, &models.NewJob{
		EmployerId:      employer.ID,
		Title:           "Backend Engineer",
		SalaryMax:       &salaryMax,
		ExperienceLevel: &senior,
	})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	now := time.Now().UTC()

	// A is 61 days in so the whole 7/30/60 cadence is past due; each
	// check-in only unlocks once the previous one is answered.
	introducedA := now.Add(-61 * 24 * time.Hour)
	introA, err := models.CreateIntroduction(ctx, db, &models.NewIntroduction{
		CandidateId:  candA.ID,
		EmployerId:   employer.ID,
		JobId:        &job.ID,
		IntroducedAt: &introducedA,
	})
	if err != nil {
		t.Fatalf("CreateIntroduction A: %v", err)
	}

	// B is 8 days in: only check-in #1 is due.
	introducedB := now.Add(-8 * 24 * time.Hour)
	introB, err := models.CreateIntroduction(ctx, db, &models.NewIntroduction{
		CandidateId:  candB.ID,
		EmployerId:   employer.ID,
		IntroducedAt: &introducedB,
	})
	if err != nil {
		t.Fatalf("CreateIntroduction B: %v", err)
	}

	fake := &recordingMailer{failFor: map[string]string{
		candB.Email: "ses: mailbox unavailable",
	}}
	scheduler := workflow.NewCheckInScheduler(db, fake, logger)

	// --- Pass 1: both due, one send fails -------------------------------

	run1, err := scheduler.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce 1: %v", err)
	}
	if run1.IntroductionsProcessed != 2 || run1.Created != 2 || run1.Sent != 1 {
		t.Fatalf("run1: expected processed=2 created=2 sent=1, got %+v", run1)
	}
	if len(run1.Errors) != 1 || run1.Errors[0].Stage != "send" || run1.Errors[0].IntroductionId != introB.ID {
		t.Fatalf("run1: expected one send error for introduction %d, got %+v", introB.ID, run1.Errors)
	}

	checkA1 := fetchCheckIn(t, introA.ID, 1)
	if checkA1.SentAt == nil {
		t.Fatal("A #1 should be sent")
	}
	if len(checkA1.ResponseToken) != 64 {
		t.Fatalf("expected a 32-byte hex token, got %q", checkA1.ResponseToken)
	}
	window := checkA1.ResponseTokenExpiry.Sub(*checkA1.SentAt)
	if window < 13*24*time.Hour || window > 15*24*time.Hour {
		t.Fatalf("token window should be 14 days, got %s", window)
	}

	checkB1 := fetchCheckIn(t, introB.ID, 1)
	if checkB1.SentAt != nil {
		t.Fatal("B #1 send failed; the row must stay unsent")
	}
	tokenB0 := checkB1.ResponseToken

	assertIntroStatus(t, introA.ID, models.IntroductionStatusAwaitingResponse)
	assertIntroStatus(t, introB.ID, models.IntroductionStatusIntroduced)

	// --- Pass 2: the stranded row is resumed, not duplicated -------------

	fake.heal()
	run2, err := scheduler.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce 2: %v", err)
	}
	if run2.IntroductionsProcessed != 1 || run2.Created != 0 || run2.Sent != 1 {
		t.Fatalf("run2: expected processed=1 created=0 sent=1, got %+v", run2)
	}
	if n := countCheckIns(t, introB.ID); n != 1 {
		t.Fatalf("retry must not duplicate rows, got %d", n)
	}
	checkB1 = fetchCheckIn(t, introB.ID, 1)
	if checkB1.SentAt == nil {
		t.Fatal("B #1 should be sent after the retry")
	}
	if checkB1.ResponseToken == tokenB0 {
		t.Fatal("the re-dispatch must rotate the token")
	}
	assertIntroStatus(t, introB.ID, models.IntroductionStatusAwaitingResponse)

	// --- Pass 3: everything is waiting on a reply ------------------------

	run3, err := scheduler.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce 3: %v", err)
	}
	if run3.IntroductionsProcessed != 0 || run3.Created != 0 || run3.Sent != 0 {
		t.Fatalf("run3: unanswered check-ins must block the cadence, got %+v", run3)
	}

	// --- Respond to A #1: interviewing ------------------------------------

	if _, err := workflow.ProcessCheckInResponse(ctx, db, "no-such-token", &workflow.CheckInResponse{ResponseRaw: "hi"}); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("bogus token: expected ErrorRecordNotFound, got %v", err)
	}
	if _, err := workflow.ProcessCheckInResponse(ctx, db, checkA1.ResponseToken, &workflow.CheckInResponse{}); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("empty body: expected ErrorValidation, got %v", err)
	}

	if _, err := workflow.ProcessCheckInResponse(ctx, db, checkA1.ResponseToken, &workflow.CheckInResponse{
		ResponseRaw: "Second interview next week, fingers crossed",
	}); err != nil {
		t.Fatalf("respond A #1: %v", err)
	}

	checkA1 = fetchCheckIn(t, introA.ID, 1)
	if checkA1.RespondedAt == nil || checkA1.ResponseType == nil || *checkA1.ResponseType != models.ResponseTypeInterviewing {
		t.Fatalf("A #1 should be recorded as interviewing, got %+v", checkA1)
	}
	if checkA1.RiskLevel == nil || *checkA1.RiskLevel != models.RiskLevelLow {
		t.Fatalf("interviewing is LOW risk, got %v", checkA1.RiskLevel)
	}
	// An in-motion interview confirms the introduction.
	assertIntroStatus(t, introA.ID, models.IntroductionStatusConfirmed)

	// A used token is dead.
	if _, err := workflow.ProcessCheckInResponse(ctx, db, checkA1.ResponseToken, &workflow.CheckInResponse{
		ResponseRaw: "changed my mind",
	}); !errors.Is(err, utils.ErrorTokenUsed) {
		t.Fatalf("reused token: expected ErrorTokenUsed, got %v", err)
	}

	// --- Pass 4: A #2 unlocks; hire with no placement flags ----------------

	run4, err := scheduler.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce 4: %v", err)
	}
	if run4.Created != 1 || run4.Sent != 1 {
		t.Fatalf("run4: expected A #2 created and sent, got %+v", run4)
	}

	checkA2 := fetchCheckIn(t, introA.ID, 2)
	if _, err := workflow.ProcessCheckInResponse(ctx, db, checkA2.ResponseToken, &workflow.CheckInResponse{
		ResponseRaw: "I was hired two weeks ago, nobody mentioned a fee",
	}); err != nil {
		t.Fatalf("respond A #2: %v", err)
	}

	checkA2 = fetchCheckIn(t, introA.ID, 2)
	if checkA2.RiskLevel == nil || *checkA2.RiskLevel != models.RiskLevelHigh {
		t.Fatalf("hire without placement must be HIGH, got %v", checkA2.RiskLevel)
	}
	if !checkA2.FlaggedForReview {
		t.Fatal("HIGH risk must flag the check-in for review")
	}
	if checkA2.RiskReason == nil || !strings.Contains(*checkA2.RiskReason, "possible circumvention") {
		t.Fatalf("risk reason should name the suspicion, got %v", checkA2.RiskReason)
	}

	flag := fetchFlagForIntroduction(t, introA.ID)
	if flag.Status != models.FlagStatusOpen {
		t.Fatalf("classifier flags open OPEN, got %s", flag.Status)
	}
	if flag.DetectionMethod != models.DetectionMethodCheckinResponse {
		t.Fatalf("expected CHECKIN_RESPONSE, got %s", flag.DetectionMethod)
	}
	if flag.EstimatedFeeOwed == nil || !flag.EstimatedFeeOwed.Equal(decimal.NewFromInt(1800000)) {
		t.Fatalf("estimated fee should be 18%% of the posting salary, got %v", flag.EstimatedFeeOwed)
	}
	if flag.EmployerId != employer.ID {
		t.Fatalf("flag should carry the employer, got %d", flag.EmployerId)
	}

	// --- Pass 5: A #3 unlocks; a second hire report refreshes the flag -----

	run5, err := scheduler.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce 5: %v", err)
	}
	if run5.Created != 1 || run5.Sent != 1 {
		t.Fatalf("run5: expected A #3 created and sent, got %+v", run5)
	}

	hiredExternally := models.ResponseTypeHiredExternally
	checkA3 := fetchCheckIn(t, introA.ID, 3)
	if _, err := workflow.ProcessCheckInResponse(ctx, db, checkA3.ResponseToken, &workflow.CheckInResponse{
		ResponseType: &hiredExternally,
	}); err != nil {
		t.Fatalf("respond A #3: %v", err)
	}

	if n := countFlagsForIntroduction(t, introA.ID); n != 1 {
		t.Fatalf("a second hire report must refresh the open flag, not duplicate it; got %d flags", n)
	}

	// --- Placement: fee split freezes, cadence stops ------------------------

	placement, err := models.CreatePlacement(ctx, db, &models.NewPlacement{
		IntroductionId: introA.ID,
		Salary:         decimal.NewFromInt(10000000),
	})
	if err != nil {
		t.Fatalf("CreatePlacement: %v", err)
	}
	if !placement.PlacementFee.Equal(decimal.NewFromInt(1800000)) ||
		!placement.UpfrontAmount.Equal(decimal.NewFromInt(900000)) ||
		!placement.RemainingAmount.Equal(decimal.NewFromInt(900000)) {
		t.Fatalf("unexpected fee split: %s / %s / %s",
			placement.PlacementFee, placement.UpfrontAmount, placement.RemainingAmount)
	}
	if !placement.FeePercentage.Equal(decimal.NewFromFloat(0.18)) {
		t.Fatalf("senior candidate bills at 18%%, got %s", placement.FeePercentage)
	}
	if placement.Status != models.PlacementStatusPending {
		t.Fatalf("new placement should be PENDING, got %s", placement.Status)
	}
	assertIntroStatus(t, introA.ID, models.IntroductionStatusPlaced)

	if _, err := models.CreatePlacement(ctx, db, &models.NewPlacement{
		IntroductionId: introA.ID,
		Salary:         decimal.NewFromInt(10000000),
	}); !errors.Is(err, utils.ErrorInvalidTransition) {
		t.Fatalf("second placement: expected ErrorInvalidTransition, got %v", err)
	}

	// Installments are ordered: remaining cannot land first.
	if _, err := models.RecordRemainingPayment(ctx, db, placement.ID); !errors.Is(err, utils.ErrorInvalidTransition) {
		t.Fatalf("remaining before upfront: expected ErrorInvalidTransition, got %v", err)
	}
	placement, err = models.RecordUpfrontPayment(ctx, db, placement.ID)
	if err != nil {
		t.Fatalf("RecordUpfrontPayment: %v", err)
	}
	if placement.Status != models.PlacementStatusUpfrontPaid || placement.UpfrontPaidAt == nil {
		t.Fatalf("expected UPFRONT_PAID with timestamp, got %+v", placement)
	}
	placement, err = models.RecordRemainingPayment(ctx, db, placement.ID)
	if err != nil {
		t.Fatalf("RecordRemainingPayment: %v", err)
	}
	if placement.Status != models.PlacementStatusCompleted || placement.RemainingPaidAt == nil {
		t.Fatalf("expected COMPLETED with timestamp, got %+v", placement)
	}
	if _, err := models.CancelPlacement(ctx, db, placement.ID); !errors.Is(err, utils.ErrorInvalidTransition) {
		t.Fatalf("cancelling a completed placement: expected ErrorInvalidTransition, got %v", err)
	}

	// --- Resend B #1, then let it expire ------------------------------------

	tokenB1 := checkB1.ResponseToken
	resent, err := workflow.ResendCheckIn(ctx, db, fake, checkB1.ID)
	if err != nil {
		t.Fatalf("ResendCheckIn: %v", err)
	}
	if resent.ResponseToken == tokenB1 {
		t.Fatal("resend must rotate the token")
	}
	if got := fake.sentTo(candB.Email); got != 2 {
		t.Fatalf("B should have two emails (retry + resend), got %d", got)
	}

	// Resending an answered check-in is refused.
	if _, err := workflow.ResendCheckIn(ctx, db, fake, checkA1.ID); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("resend of answered check-in: expected ErrorValidation, got %v", err)
	}

	// Force B #1's token past its window; the sweep finalizes it.
	// UpdateColumn skips the model hooks: this is test plumbing, not a
	// domain change worth a history row.
	if err := db.Model(&models.CheckIn{}).Where("id = ?", checkB1.ID).
		UpdateColumn("response_token_expiry", now.Add(-time.Hour)).Error; err != nil {
		t.Fatalf("force expiry: %v", err)
	}
	run6, err := scheduler.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce 6: %v", err)
	}
	if run6.Expired != 1 {
		t.Fatalf("run6: expected one expiry, got %+v", run6)
	}
	if run6.IntroductionsProcessed != 0 {
		t.Fatalf("run6: placed A and early B owe nothing, got %+v", run6)
	}

	checkB1 = fetchCheckIn(t, introB.ID, 1)
	if checkB1.RespondedAt == nil || checkB1.ResponseType == nil || *checkB1.ResponseType != models.ResponseTypeNoResponse {
		t.Fatalf("expired check-in should close as no_response, got %+v", checkB1)
	}
	if checkB1.RiskLevel == nil || *checkB1.RiskLevel != models.RiskLevelLow {
		t.Fatalf("silence is LOW risk, got %v", checkB1.RiskLevel)
	}
	if checkB1.RiskReason == nil || *checkB1.RiskReason != models.NoResponseRiskReason {
		t.Fatalf("expected the fixed expiry reason, got %v", checkB1.RiskReason)
	}
	if checkB1.FlaggedForReview {
		t.Fatal("no_response must not flag for review")
	}

	// The dead link answers like a used one.
	if _, err := workflow.ProcessCheckInResponse(ctx, db, checkB1.ResponseToken, &workflow.CheckInResponse{
		ResponseRaw: "sorry, was travelling",
	}); !errors.Is(err, utils.ErrorTokenUsed) {
		t.Fatalf("expired+finalized token: expected ErrorTokenUsed, got %v", err)
	}

	// --- Ledger stats --------------------------------------------------------

	stats, err := models.GetCircumventionStats(ctx, db)
	if err != nil {
		t.Fatalf("GetCircumventionStats: %v", err)
	}
	if stats.Total != 1 || stats.ByStatus[models.FlagStatusOpen] != 1 || stats.ActionRequired != 1 {
		t.Fatalf("expected one OPEN flag needing action, got %+v", stats)
	}
	if !stats.Revenue.Potential.Equal(decimal.NewFromInt(1800000)) {
		t.Fatalf("potential revenue should carry the estimate, got %s", stats.Revenue.Potential)
	}
	if len(stats.DetectionMethods) != 1 || stats.DetectionMethods[0].Method != models.DetectionMethodCheckinResponse {
		t.Fatalf("unexpected detection method counts: %+v", stats.DetectionMethods)
	}

	// Every domain change left an outbox row behind for the dispatcher.
	var pendingEvents int64
	if err := db.Model(&models.EventRecord{}).
		Where("publish_status = ?", models.EventPublishStatusPending).
		Count(&pendingEvents).Error; err != nil {
		t.Fatalf("count outbox rows: %v", err)
	}
	if pendingEvents == 0 {
		t.Fatal("expected pending outbox rows (no dispatcher runs in this test)")
	}
}

func fetchCheckIn(t *testing.T, introductionID, number int) *models.CheckIn {
	t.Helper()
	var checkIn models.CheckIn
	err := config.GetDB().
		Where("introduction_id = ? AND check_in_number = ?", introductionID, number).
		First(&checkIn).Error
	if err != nil {
		t.Fatalf("fetch check-in #%d for introduction %d: %v", number, introductionID, err)
	}
	return &checkIn
}

func countCheckIns(t *testing.T, introductionID int) int64 {
	t.Helper()
	var n int64
	if err := config.GetDB().Model(&models.CheckIn{}).
		Where("introduction_id = ?", introductionID).Count(&n).Error; err != nil {
		t.Fatalf("count check-ins: %v", err)
	}
	return n
}

func fetchFlagForIntroduction(t *testing.T, introductionID int) *models.CircumventionFlag {
	t.Helper()
	var flag models.CircumventionFlag
	err := config.GetDB().
		Where("introduction_id = ?", introductionID).
		First(&flag).Error
	if err != nil {
		t.Fatalf("fetch flag for introduction %d: %v", introductionID, err)
	}
	return &flag
}

func countFlagsForIntroduction(t *testing.T, introductionID int) int64 {
	t.Helper()
	var n int64
	if err := config.GetDB().Model(&models.CircumventionFlag{}).
		Where("introduction_id = ?", introductionID).Count(&n).Error; err != nil {
		t.Fatalf("count flags: %v", err)
	}
	return n
}

func assertIntroStatus(t *testing.T, id int, expected models.IntroductionStatus) {
	t.Helper()
	var intro models.Introduction
	if err := config.GetDB().First(&intro, id).Error; err != nil {
		t.Fatalf("fetch introduction %d: %v", id, err)
	}
	if intro.Status != expected {
		t.Fatalf("introduction %d: expected %s, got %s", id, expected, intro.Status)
	}
}

func startRedisTestContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("talentbridge-test-redis-%d", time.Now().UnixNano())
	out, err := dockerCommand(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerMappedPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerCommand("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLTestContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("talentbridge-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerCommand(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=talentbridge_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerMappedPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerCommand("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerMappedPort(container, portProto string) (string, error) {
	out, err := dockerCommand("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRemoveForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerCommand("rm", "-f", container)
	return err
}

func dockerCommand(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
