package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

// remainingDueDays is how long after placement creation the second fee
// installment falls due.
const remainingDueDays = 90

// Placement is a finalized hire with its fee obligation split into an
// upfront and a remaining installment. Amounts are annual-salary minor
// units; upfront + remaining always equals the placement fee exactly.
type Placement struct {
	ID               int             `gorm:"primary_key" json:"id"`
	IntroductionId   int             `gorm:"not null;uniqueIndex" json:"introduction_id"`
	Salary           decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"salary"`
	ExperienceLevel  ExperienceLevel `gorm:"size:50;not null" json:"experience_level"`
	FeePercentage    decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"fee_percentage"`
	PlacementFee     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"placement_fee"`
	UpfrontAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"upfront_amount"`
	RemainingAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"remaining_amount"`
	RemainingDueDate time.Time       `gorm:"not null" json:"remaining_due_date"`
	Status           PlacementStatus `gorm:"type:enum('PENDING','UPFRONT_PAID','COMPLETED','CANCELLED');not null;default:'PENDING';index" json:"status"`
	StartDate        *time.Time      `json:"start_date"`
	UpfrontPaidAt    *time.Time      `json:"upfront_paid_at"`
	RemainingPaidAt  *time.Time      `json:"remaining_paid_at"`
	Introduction     *Introduction   `json:"introduction,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPlacement struct {
	IntroductionId  int              `json:"introduction_id" binding:"required"`
	Salary          decimal.Decimal  `json:"salary"`
	ExperienceLevel *ExperienceLevel `json:"experience_level"`
	StartDate       *time.Time       `json:"start_date"`
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

// CreatePlacement converts a confirmed introduction into a billable hire.
// The fee breakdown is computed here and frozen onto the row; the
// introduction moves to PLACED in the same transaction. The unique index on
// introduction_id makes a second placement for the same introduction fail
// cleanly under concurrency.
func CreatePlacement(ctx context.Context, db *gorm.DB, input *NewPlacement) (*Placement, error) {
	if input.Salary.IsNegative() {
		return nil, fmt.Errorf("%w: salary must not be negative", utils.ErrorValidation)
	}

	introduction, err := utils.FetchModel[Introduction](ctx, db, input.IntroductionId, "Candidate")
	if err != nil {
		return nil, fmt.Errorf("%w: introduction %d", utils.ErrorRecordNotFound, input.IntroductionId)
	}
	if err := ValidateIntroductionTransition(introduction.Status, IntroductionStatusPlaced); err != nil {
		return nil, err
	}

	experienceLevel := ExperienceLevel("")
	if input.ExperienceLevel != nil {
		experienceLevel = *input.ExperienceLevel
	} else if introduction.Candidate != nil {
		experienceLevel = introduction.Candidate.ExperienceLevel
	}

	breakdown := CalculatePlacementFee(input.Salary, experienceLevel)
	now := time.Now().UTC()

	placement := Placement{
		IntroductionId:   introduction.ID,
		Salary:           input.Salary,
		ExperienceLevel:  experienceLevel,
		FeePercentage:    breakdown.FeePercentage,
		PlacementFee:     breakdown.PlacementFee,
		UpfrontAmount:    breakdown.UpfrontAmount,
		RemainingAmount:  breakdown.RemainingAmount,
		RemainingDueDate: now.AddDate(0, 0, remainingDueDays),
		Status:           PlacementStatusPending,
		StartDate:        input.StartDate,
	}

	introBefore := *introduction
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&placement).Error; err != nil {
			if isDuplicateKeyErr(err) {
				return fmt.Errorf("%w: a placement already exists for this introduction", utils.ErrorValidation)
			}
			return err
		}
		if err := tx.Model(introduction).Update("status", IntroductionStatusPlaced).Error; err != nil {
			return err
		}
		if err := closePendingCheckIns(ctx, tx, introduction.ID, now); err != nil {
			return err
		}
		if err := PublishEvent(ctx, tx, now, placement.ID, EventReferenceTypePlacement, placement, nil, EventActionCreate); err != nil {
			return err
		}
		return PublishEvent(ctx, tx, now, introduction.ID, EventReferenceTypeIntroduction, introduction, introBefore, EventActionUpdate)
	})
	if err != nil {
		return nil, err
	}

	return &placement, nil
}

// closePendingCheckIns answers any probe still waiting on the candidate:
// the placement itself is the answer, a hire with its fee on the books.
// Without this the expiry sweep would later mislabel the row no_response.
func closePendingCheckIns(ctx context.Context, tx *gorm.DB, introductionId int, now time.Time) error {
	var pending []*CheckIn
	err := tx.Where("introduction_id = ? AND sent_at IS NOT NULL AND responded_at IS NULL", introductionId).
		Find(&pending).Error
	if err != nil {
		return err
	}

	for _, checkIn := range pending {
		before := *checkIn
		updates := map[string]interface{}{
			"responded_at":  now,
			"response_type": ResponseTypeHiredThroughPlatform,
			"risk_level":    RiskLevelLow,
			"risk_reason":   "placement recorded; the fee is tracked",
		}
		if err := tx.Model(checkIn).Updates(updates).Error; err != nil {
			return err
		}
		if err := PublishEvent(ctx, tx, now, checkIn.ID, EventReferenceTypeCheckIn, checkIn, before, EventActionUpdate); err != nil {
			return err
		}
	}
	return nil
}

// RecordUpfrontPayment marks the first installment received.
func RecordUpfrontPayment(ctx context.Context, db *gorm.DB, id int) (*Placement, error) {
	return recordPlacementPayment(ctx, db, id, PlacementStatusUpfrontPaid, "upfront_paid_at")
}

// RecordRemainingPayment marks the second installment received and
// completes the placement.
func RecordRemainingPayment(ctx context.Context, db *gorm.DB, id int) (*Placement, error) {
	return recordPlacementPayment(ctx, db, id, PlacementStatusCompleted, "remaining_paid_at")
}

func recordPlacementPayment(ctx context.Context, db *gorm.DB, id int, newStatus PlacementStatus, paidAtColumn string) (*Placement, error) {
	placement, err := utils.FetchModel[Placement](ctx, db, id)
	if err != nil {
		return nil, err
	}

	if err := ValidatePlacementTransition(placement.Status, newStatus); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":     newStatus,
		paidAtColumn: now,
	}

	before := *placement
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(placement).Updates(updates).Error; err != nil {
			return err
		}
		return PublishEvent(ctx, tx, now, placement.ID, EventReferenceTypePlacement, placement, before, EventActionUpdate)
	})
	if err != nil {
		return nil, err
	}

	return utils.FetchModel[Placement](ctx, db, id)
}

// CancelPlacement voids the fee obligation. The introduction stays PLACED;
// whether to pursue the employer is a ledger question, not a lifecycle one.
func CancelPlacement(ctx context.Context, db *gorm.DB, id int) (*Placement, error) {
	placement, err := utils.FetchModel[Placement](ctx, db, id)
	if err != nil {
		return nil, err
	}

	if err := ValidatePlacementTransition(placement.Status, PlacementStatusCancelled); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	before := *placement
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(placement).Update("status", PlacementStatusCancelled).Error; err != nil {
			return err
		}
		return PublishEvent(ctx, tx, now, placement.ID, EventReferenceTypePlacement, placement, before, EventActionUpdate)
	})
	if err != nil {
		return nil, err
	}

	return utils.FetchModel[Placement](ctx, db, id)
}

func GetPlacementDetail(ctx context.Context, db *gorm.DB, id int) (*Placement, error) {
	return utils.FetchModel[Placement](ctx, db, id,
		"Introduction", "Introduction.Candidate", "Introduction.Employer", "Introduction.Job")
}

func ListPlacements(ctx context.Context, db *gorm.DB, status *PlacementStatus, page PageParams) ([]*Placement, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&Placement{})
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*Placement
	err := dbCtx.Preload("Introduction").Preload("Introduction.Candidate").
		Order("created_at DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
