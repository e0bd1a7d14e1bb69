package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
	"github.com/sohaibtahir00/job-portal-backend-sub003/mailer"
	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
)

const schedulerLockKey = "lock:checkin-scheduler"

// checkInEligibleStatuses are the non-terminal introduction statuses that
// keep receiving check-ins. CONFIRMED stays in the set: a match in the
// interview or offer stage is exactly where an off-platform hire happens.
var checkInEligibleStatuses = []models.IntroductionStatus{
	models.IntroductionStatusIntroduced,
	models.IntroductionStatusAwaitingResponse,
	models.IntroductionStatusConfirmed,
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

// CheckInScheduler creates and dispatches the periodic candidate check-ins.
// Every dependency is an explicit field; nothing is read from package
// globals so tests can point it at fakes.
type CheckInScheduler struct {
	DB     *gorm.DB
	Mailer mailer.Mailer
	Logger *logrus.Logger
	Locker *redislock.Client

	RunnerID     string
	Cadence      []int // days after introducedAt, indexed by check-in number
	TokenTTL     time.Duration
	PollInterval time.Duration
}

func NewCheckInScheduler(db *gorm.DB, m mailer.Mailer, logger *logrus.Logger) *CheckInScheduler {
	return &CheckInScheduler{
		DB:           db,
		Mailer:       m,
		Logger:       logger,
		RunnerID:     uuid.NewString(),
		Cadence:      []int{7, 30, 60},
		TokenTTL:     14 * 24 * time.Hour,
		PollInterval: time.Hour,
	}
}

type SchedulerError struct {
	IntroductionId int    `json:"introductionId,omitempty"`
	CheckInId      int    `json:"checkInId,omitempty"`
	Stage          string `json:"stage"`
	Message        string `json:"message"`
}

type SchedulerRunResult struct {
	IntroductionsProcessed int              `json:"introductionsProcessed"`
	Created                int              `json:"created"`
	Sent                   int              `json:"sent"`
	Expired                int              `json:"expired"`
	Errors                 []SchedulerError `json:"errors"`
}

// DueCheckIn is the scheduler's decision for one introduction: which
// check-in number is owed and when it fell due. Resume carries a row an
// earlier run created but never dispatched.
type DueCheckIn struct {
	Number int
	DueAt  time.Time
	Resume *models.CheckIn
}

// NextDueCheckIn applies the cadence to an introduction's check-in history.
// Cadence entries are days after introducedAt: with the default 7/30/60,
// check-in #1 falls due a week in, #2 after a month, #3 after two.
// Returns nil when nothing is owed: a reply is still pending, the next
// check-in has not fallen due, or the cadence is exhausted.
func NextDueCheckIn(introduction *models.Introduction, cadence []int, now time.Time) *DueCheckIn {
	var latest *models.CheckIn
	for _, c := range introduction.CheckIns {
		if latest == nil || c.CheckInNumber > latest.CheckInNumber {
			latest = c
		}
	}

	next := 1
	if latest != nil {
		if latest.SentAt == nil {
			// Created but never dispatched (a run died between insert and
			// send). Pick it back up instead of duplicating it.
			return &DueCheckIn{Number: latest.CheckInNumber, DueAt: latest.ScheduledFor, Resume: latest}
		}
		if latest.RespondedAt == nil {
			return nil
		}
		next = latest.CheckInNumber + 1
	}
	if next > len(cadence) {
		return nil
	}
	dueAt := introduction.IntroducedAt.Add(time.Duration(cadence[next-1]) * 24 * time.Hour)
	if dueAt.After(now) {
		return nil
	}
	return &DueCheckIn{Number: next, DueAt: dueAt}
}

// RunOnce executes a single scheduler pass. Per-introduction failures are
// collected into the result and never abort the batch; only a failure to
// read the eligible set is fatal.
func (s *CheckInScheduler) RunOnce(ctx context.Context) (*SchedulerRunResult, error) {
	now := time.Now().UTC()
	result := &SchedulerRunResult{Errors: []SchedulerError{}}

	if config.CheckInExpirySweep() {
		expired, errs := s.sweepExpired(ctx, now)
		result.Expired = expired
		result.Errors = append(result.Errors, errs...)
	}

	var introductions []*models.Introduction
	err := s.DB.WithContext(ctx).
		Where("status IN ?", checkInEligibleStatuses).
		Preload("Candidate").Preload("Employer").Preload("Job").
		Preload("CheckIns", func(db *gorm.DB) *gorm.DB {
			return db.Order("check_in_number ASC")
		}).
		Order("id ASC").
		Find(&introductions).Error
	if err != nil {
		return nil, fmt.Errorf("read eligible introductions: %w", err)
	}

	for _, introduction := range introductions {
		due := NextDueCheckIn(introduction, s.Cadence, now)
		if due == nil {
			continue
		}
		result.IntroductionsProcessed++

		checkIn := due.Resume
		if checkIn == nil {
			created, err := s.createCheckIn(ctx, introduction, due, now)
			if err != nil {
				result.Errors = append(result.Errors, SchedulerError{
					IntroductionId: introduction.ID,
					Stage:          "create",
					Message:        err.Error(),
				})
				continue
			}
			if created == nil {
				// Another run won the unique-index race; its row will be
				// dispatched by whoever created it (or resumed next pass).
				continue
			}
			result.Created++
			checkIn = created
		}

		if err := s.dispatch(ctx, introduction, checkIn, now); err != nil {
			result.Errors = append(result.Errors, SchedulerError{
				IntroductionId: introduction.ID,
				CheckInId:      checkIn.ID,
				Stage:          "send",
				Message:        err.Error(),
			})
			continue
		}
		result.Sent++
	}

	return result, nil
}

// sweepExpired finalizes sent, unanswered check-ins whose token lapsed.
// Running it before eligibility selection keeps "exactly one open check-in
// per introduction" true while still letting the next one be created in
// the same pass.
func (s *CheckInScheduler) sweepExpired(ctx context.Context, now time.Time) (int, []SchedulerError) {
	var stale []*models.CheckIn
	err := s.DB.WithContext(ctx).
		Where("sent_at IS NOT NULL AND responded_at IS NULL AND response_token_expiry < ?", now).
		Order("id ASC").
		Find(&stale).Error
	if err != nil {
		return 0, []SchedulerError{{Stage: "sweep", Message: err.Error()}}
	}

	expired := 0
	var errs []SchedulerError
	for _, checkIn := range stale {
		if err := models.FinalizeExpiredCheckIn(ctx, s.DB, checkIn); err != nil {
			errs = append(errs, SchedulerError{
				IntroductionId: checkIn.IntroductionId,
				CheckInId:      checkIn.ID,
				Stage:          "sweep",
				Message:        err.Error(),
			})
			continue
		}
		expired++
	}
	return expired, errs
}

// createCheckIn inserts the owed check-in row. The insert carries a
// placeholder token; the token that actually goes out is written by the
// same UPDATE that sets sent_at. A nil, nil return means a concurrent run
// already created this row.
func (s *CheckInScheduler) createCheckIn(ctx context.Context, introduction *models.Introduction, due *DueCheckIn, now time.Time) (*models.CheckIn, error) {
	token, err := utils.GenerateResponseToken()
	if err != nil {
		return nil, err
	}
	checkIn := &models.CheckIn{
		IntroductionId:      introduction.ID,
		CheckInNumber:       due.Number,
		ScheduledFor:        due.DueAt,
		ResponseToken:       token,
		ResponseTokenExpiry: now.Add(s.TokenTTL),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(checkIn).Error; err != nil {
			return err
		}
		return models.PublishEvent(ctx, tx, now, checkIn.ID, models.EventReferenceTypeCheckIn, checkIn, nil, models.EventActionCreate)
	})
	if err != nil {
		if isDuplicateKeyErr(err) {
			return nil, nil
		}
		return nil, err
	}
	return checkIn, nil
}

// dispatch emails the check-in, then marks it sent. Token, expiry and
// sent_at land in one UPDATE, so a row with sent_at set always carries the
// token that was mailed; a send that fails before the UPDATE leaves the
// row unsent and a later pass re-dispatches with a fresh token.
func (s *CheckInScheduler) dispatch(ctx context.Context, introduction *models.Introduction, checkIn *models.CheckIn, now time.Time) error {
	token, err := utils.GenerateResponseToken()
	if err != nil {
		return err
	}
	expiry := now.Add(s.TokenTTL)

	email, err := buildCheckInEmail(introduction, checkIn, token)
	if err != nil {
		return err
	}
	if err := s.Mailer.SendCheckInEmail(ctx, email); err != nil {
		return err
	}
	subject, _, err := mailer.RenderCheckInEmail(email)
	if err != nil {
		subject = "Check-in"
	}

	before := *checkIn
	updates := map[string]interface{}{
		"sent_at":               now,
		"response_token":        token,
		"response_token_expiry": expiry,
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(checkIn).Updates(updates).Error; err != nil {
			return err
		}
		if introduction.Status == models.IntroductionStatusIntroduced {
			introBefore := *introduction
			if err := tx.Model(introduction).Update("status", models.IntroductionStatusAwaitingResponse).Error; err != nil {
				return err
			}
			if err := models.PublishEvent(ctx, tx, now, introduction.ID, models.EventReferenceTypeIntroduction, introduction, introBefore, models.EventActionUpdate); err != nil {
				return err
			}
		}
		if err := models.PublishEvent(ctx, tx, now, checkIn.ID, models.EventReferenceTypeCheckIn, checkIn, before, models.EventActionUpdate); err != nil {
			return err
		}
		return models.CreateNotification(ctx, tx, &models.Notification{
			RecipientEmail: email.CandidateEmail,
			Kind:           models.NotificationKindCheckInRequest,
			Subject:        subject,
			Body:           mailer.ResponseURL(token),
			ReferenceId:    &checkIn.ID,
			SentAt:         &now,
		})
	})
}

// buildCheckInEmail assembles the notice from a loaded introduction chain.
func buildCheckInEmail(introduction *models.Introduction, checkIn *models.CheckIn, token string) (mailer.CheckInEmail, error) {
	if introduction == nil || introduction.Candidate == nil || introduction.Employer == nil {
		return mailer.CheckInEmail{}, errors.New("introduction chain is not loaded")
	}
	email := mailer.CheckInEmail{
		CandidateEmail:      introduction.Candidate.Email,
		CandidateName:       introduction.Candidate.FullName(),
		EmployerCompanyName: introduction.Employer.CompanyName,
		CheckInNumber:       checkIn.CheckInNumber,
		ResponseToken:       token,
		IntroductionDate:    introduction.IntroducedAt,
	}
	if introduction.Job != nil {
		email.JobTitle = introduction.Job.Title
	}
	return email, nil
}

// ResendCheckIn re-issues a check-in that went out but was not answered:
// fresh token (the old link dies because the column is overwritten), a new
// 14-day window, one more email. Valid only while the introduction is still
// in the introduced/awaiting stage and the check-in is unanswered.
func ResendCheckIn(ctx context.Context, db *gorm.DB, m mailer.Mailer, id int) (*models.CheckIn, error) {
	checkIn, err := models.GetCheckInDetail(ctx, db, id)
	if err != nil {
		return nil, err
	}
	introduction := checkIn.Introduction
	if introduction == nil {
		return nil, utils.ErrorRecordNotFound
	}
	if introduction.Status != models.IntroductionStatusIntroduced &&
		introduction.Status != models.IntroductionStatusAwaitingResponse {
		return nil, fmt.Errorf("%w: introduction %d is %s, resend is only allowed while introduced or awaiting a response",
			utils.ErrorValidation, introduction.ID, introduction.Status)
	}
	if checkIn.RespondedAt != nil {
		return nil, fmt.Errorf("%w: check-in %d was already answered", utils.ErrorValidation, checkIn.ID)
	}
	if checkIn.SentAt == nil {
		return nil, fmt.Errorf("%w: check-in %d has not been sent yet; the scheduler owns the first dispatch", utils.ErrorValidation, checkIn.ID)
	}

	now := time.Now().UTC()
	token, err := utils.GenerateResponseToken()
	if err != nil {
		return nil, err
	}
	expiry := now.Add(14 * 24 * time.Hour)

	email, err := buildCheckInEmail(introduction, checkIn, token)
	if err != nil {
		return nil, err
	}
	if err := m.SendCheckInEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("%w: %s", utils.ErrorDownstream, err.Error())
	}
	subject, _, err := mailer.RenderCheckInEmail(email)
	if err != nil {
		subject = "Check-in"
	}

	before := *checkIn
	updates := map[string]interface{}{
		"sent_at":               now,
		"response_token":        token,
		"response_token_expiry": expiry,
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(checkIn).Updates(updates).Error; err != nil {
			return err
		}
		if err := models.PublishEvent(ctx, tx, now, checkIn.ID, models.EventReferenceTypeCheckIn, checkIn, before, models.EventActionUpdate); err != nil {
			return err
		}
		return models.CreateNotification(ctx, tx, &models.Notification{
			RecipientEmail: email.CandidateEmail,
			Kind:           models.NotificationKindCheckInRequest,
			Subject:        subject,
			Body:           mailer.ResponseURL(token),
			ReferenceId:    &checkIn.ID,
			SentAt:         &now,
		})
	})
	if err != nil {
		return nil, err
	}
	return checkIn, nil
}

// Run ticks RunOnce on PollInterval until the context is cancelled. The
// redis lock is best-effort duplicate suppression across instances; the
// unique index on (introduction_id, check_in_number) is the real guard.
func (s *CheckInScheduler) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.PollInterval):
		}
	}
}

func (s *CheckInScheduler) tick(ctx context.Context) {
	if s.Locker != nil {
		lock, err := s.Locker.Obtain(ctx, schedulerLockKey, s.PollInterval, nil)
		if err == redislock.ErrNotObtained {
			return
		}
		if err != nil {
			// Redis being down never stops the scheduler.
			s.Logger.WithFields(logrus.Fields{
				"field":     "CheckInScheduler",
				"runner_id": s.RunnerID,
			}).Warn("error obtaining scheduler lock; proceeding without it: " + err.Error())
		} else {
			defer func() {
				_ = lock.Release(ctx)
			}()
		}
	}

	result, err := s.RunOnce(ctx)
	if err != nil {
		config.LogError(s.Logger, "workflow", "CheckInScheduler.tick", "scheduler run failed", s.RunnerID, err)
		return
	}
	s.Logger.WithFields(logrus.Fields{
		"field":                   "CheckInScheduler",
		"runner_id":               s.RunnerID,
		"introductions_processed": result.IntroductionsProcessed,
		"created":                 result.Created,
		"sent":                    result.Sent,
		"expired":                 result.Expired,
		"errors":                  len(result.Errors),
	}).Info("scheduler run complete")
}
