package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

// NoResponseRiskReason is the fixed reason recorded when a check-in is
// auto-closed because its response token expired without a reply. Silence
// is not a circumvention signal, so the level is always LOW.
const NoResponseRiskReason = "No response received before the response token expired"

// CheckIn is a scheduled probe asking the candidate how an introduction is
// going. The composite unique index makes check-in creation idempotent even
// under concurrent scheduler runs.
type CheckIn struct {
	ID                  int                  `gorm:"primary_key" json:"id"`
	IntroductionId      int                  `gorm:"not null;uniqueIndex:idx_checkin_intro_number,priority:1" json:"introduction_id"`
	CheckInNumber       int                  `gorm:"not null;uniqueIndex:idx_checkin_intro_number,priority:2" json:"check_in_number"`
	ScheduledFor        time.Time            `gorm:"not null;index" json:"scheduled_for"`
	SentAt              *time.Time           `json:"sent_at"`
	ResponseToken       string               `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ResponseTokenExpiry time.Time            `gorm:"not null" json:"response_token_expiry"`
	RespondedAt         *time.Time           `json:"responded_at"`
	ResponseType        *CheckInResponseType `gorm:"type:enum('hired_through_platform','hired_externally','offer_pending','interviewing','no_change','not_hired','no_response')" json:"response_type"`
	ResponseRaw         *string              `gorm:"type:text" json:"response_raw"`
	ResponseParsed      *string              `gorm:"type:text" json:"response_parsed"`
	RiskLevel           *RiskLevel           `gorm:"type:enum('LOW','MEDIUM','HIGH')" json:"risk_level"`
	RiskReason          *string              `gorm:"type:text" json:"risk_reason"`
	FlaggedForReview    bool                 `gorm:"not null;default:false;index" json:"flagged_for_review"`
	ReviewedAt          *time.Time           `json:"reviewed_at"`
	ReviewedBy          *int                 `json:"reviewed_by"`
	ReviewNotes         *string              `gorm:"type:text" json:"review_notes"`
	Introduction        *Introduction        `json:"introduction,omitempty"`
	CreatedAt           time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

// State derives the lifecycle position from the timestamp columns rather
// than storing a separate status that could drift out of sync.
func (c *CheckIn) State() CheckInState {
	switch {
	case c.RespondedAt != nil:
		return CheckInStateResponded
	case c.SentAt != nil:
		return CheckInStateSent
	default:
		return CheckInStateScheduled
	}
}

func (c *CheckIn) TokenExpired(now time.Time) bool {
	return now.After(c.ResponseTokenExpiry)
}

// ExpiredUnresponded reports whether the check-in went out but its token
// lapsed with no reply, which makes it due for no_response finalization.
func (c *CheckIn) ExpiredUnresponded(now time.Time) bool {
	return c.SentAt != nil && c.RespondedAt == nil && c.TokenExpired(now)
}

// FinalizeExpiredCheckIn auto-closes a sent, unresponded check-in whose
// token has lapsed: responseType no_response, LOW risk, fixed reason. Both
// the read path and the expiry sweep funnel through here so the two
// detection modes cannot disagree.
func FinalizeExpiredCheckIn(ctx context.Context, db *gorm.DB, checkIn *CheckIn) error {
	now := time.Now().UTC()
	if !checkIn.ExpiredUnresponded(now) {
		return errors.New("check-in is not awaiting expiry")
	}

	before := *checkIn
	updates := map[string]interface{}{
		"responded_at":  now,
		"response_type": ResponseTypeNoResponse,
		"risk_level":    RiskLevelLow,
		"risk_reason":   NoResponseRiskReason,
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(checkIn).Updates(updates).Error; err != nil {
			return err
		}
		return PublishEvent(ctx, tx, now, checkIn.ID, EventReferenceTypeCheckIn, checkIn, before, EventActionUpdate)
	})
}

// GetCheckInDetail loads a check-in with its introduction chain. Expiry is
// detected lazily here as a backstop for the sweep: a lapsed, unresponded
// check-in is finalized before it is returned.
func GetCheckInDetail(ctx context.Context, db *gorm.DB, id int) (*CheckIn, error) {
	checkIn, err := utils.FetchModel[CheckIn](ctx, db, id,
		"Introduction", "Introduction.Candidate", "Introduction.Employer", "Introduction.Job")
	if err != nil {
		return nil, err
	}

	if checkIn.ExpiredUnresponded(time.Now().UTC()) {
		if err := FinalizeExpiredCheckIn(ctx, db, checkIn); err != nil {
			return nil, err
		}
	}

	return checkIn, nil
}

func GetCheckInByToken(ctx context.Context, db *gorm.DB, token string) (*CheckIn, error) {

	var checkIn CheckIn

	err := db.WithContext(ctx).
		Preload("Introduction").Preload("Introduction.Candidate").
		Preload("Introduction.Employer").Preload("Introduction.Job").
		Where("response_token = ?", token).
		First(&checkIn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &checkIn, nil
}

type CheckInFilter struct {
	IntroductionId   *int  `form:"introduction_id" json:"introduction_id"`
	FlaggedForReview *bool `form:"flagged_for_review" json:"flagged_for_review"`
	Responded        *bool `form:"responded" json:"responded"`
}

func ListCheckIns(ctx context.Context, db *gorm.DB, filter CheckInFilter, page PageParams) ([]*CheckIn, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&CheckIn{})
	if filter.IntroductionId != nil && *filter.IntroductionId > 0 {
		dbCtx = dbCtx.Where("introduction_id = ?", *filter.IntroductionId)
	}
	if filter.FlaggedForReview != nil {
		dbCtx = dbCtx.Where("flagged_for_review = ?", *filter.FlaggedForReview)
	}
	if filter.Responded != nil {
		if *filter.Responded {
			dbCtx = dbCtx.Where("responded_at IS NOT NULL")
		} else {
			dbCtx = dbCtx.Where("responded_at IS NULL")
		}
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*CheckIn
	err := dbCtx.Preload("Introduction").
		Order("scheduled_for DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// CheckInReview is the admin PATCH body. All fields are optional; enum
// fields reject unknown values at bind time.
type CheckInReview struct {
	ResponseType     *CheckInResponseType `json:"response_type"`
	RiskLevel        *RiskLevel           `json:"risk_level"`
	RiskReason       *string              `json:"risk_reason"`
	FlaggedForReview *bool                `json:"flagged_for_review"`
	ReviewNotes      *string              `json:"review_notes"`
}

func (input *CheckInReview) empty() bool {
	return input.ResponseType == nil &&
		input.RiskLevel == nil &&
		input.RiskReason == nil &&
		input.FlaggedForReview == nil &&
		input.ReviewNotes == nil
}

// ApplyCheckInReview applies an admin's manual override of the classifier
// outcome. Setting response_type to no_response on an unresponded check-in
// closes it the same way token expiry would.
func ApplyCheckInReview(ctx context.Context, db *gorm.DB, id int, input *CheckInReview) (*CheckIn, error) {
	if input.empty() {
		return nil, fmt.Errorf("%w: no review fields provided", utils.ErrorValidation)
	}

	checkIn, err := utils.FetchModel[CheckIn](ctx, db, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"reviewed_at": now,
	}
	if userId, ok := utils.GetUserIdFromContext(ctx); ok {
		updates["reviewed_by"] = userId
	}
	if input.ResponseType != nil {
		updates["response_type"] = *input.ResponseType
	}
	if input.RiskLevel != nil {
		updates["risk_level"] = *input.RiskLevel
	}
	if input.RiskReason != nil {
		updates["risk_reason"] = *input.RiskReason
	}
	if input.FlaggedForReview != nil {
		updates["flagged_for_review"] = *input.FlaggedForReview
	}
	if input.ReviewNotes != nil {
		notes := *input.ReviewNotes
		if checkIn.ReviewNotes != nil && *checkIn.ReviewNotes != "" {
			notes = *checkIn.ReviewNotes + "\n" + notes
		}
		updates["review_notes"] = notes
	}

	// Marking an unresponded check-in no_response closes it: the reply
	// window is over and silence is never treated as circumvention.
	if input.ResponseType != nil && *input.ResponseType == ResponseTypeNoResponse && checkIn.RespondedAt == nil {
		updates["responded_at"] = now
		updates["risk_level"] = RiskLevelLow
		updates["risk_reason"] = NoResponseRiskReason
	}

	before := *checkIn
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(checkIn).Updates(updates).Error; err != nil {
			return err
		}
		return PublishEvent(ctx, tx, now, checkIn.ID, EventReferenceTypeCheckIn, checkIn, before, EventActionUpdate)
	})
	if err != nil {
		return nil, err
	}

	return utils.FetchModel[CheckIn](ctx, db, id)
}
