package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

// CircumventionFlag records a suspected instance of an employer hiring an
// introduced candidate while avoiding the placement fee. Flags reference an
// introduction when one is known; manual and LinkedIn-sourced flags may only
// know the employer.
type CircumventionFlag struct {
	ID               int                     `gorm:"primary_key" json:"id"`
	IntroductionId   *int                    `gorm:"index" json:"introduction_id"`
	EmployerId       int                     `gorm:"not null;index" json:"employer_id"`
	DetectionMethod  DetectionMethod         `gorm:"type:enum('LINKEDIN_MATCH','CHECKIN_RESPONSE','MANUAL');not null" json:"detection_method"`
	EstimatedFeeOwed *decimal.Decimal        `gorm:"type:decimal(20,4)" json:"estimated_fee_owed"`
	Status           CircumventionFlagStatus `gorm:"type:enum('OPEN','INVESTIGATING','INVOICE_SENT','PAID','DISPUTED','FALSE_POSITIVE','WROTE_OFF');not null;default:'OPEN';index" json:"status"`
	InvoiceAmount    *decimal.Decimal        `gorm:"type:decimal(20,4)" json:"invoice_amount"`
	DetectedAt       time.Time               `gorm:"not null;index" json:"detected_at"`
	Notes            *string                 `gorm:"type:text" json:"notes"`
	ResolvedAt       *time.Time              `json:"resolved_at"`
	Introduction     *Introduction           `json:"introduction,omitempty"`
	Employer         *Employer               `json:"employer,omitempty"`
	CreatedAt        time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCircumventionFlag struct {
	IntroductionId   *int             `json:"introduction_id"`
	EmployerId       int              `json:"employer_id"`
	DetectionMethod  *DetectionMethod `json:"detection_method"`
	EstimatedFeeOwed *decimal.Decimal `json:"estimated_fee_owed"`
	Notes            *string          `json:"notes"`
}

func (input *NewCircumventionFlag) validate(ctx context.Context, db *gorm.DB) error {
	if input.IntroductionId == nil && input.EmployerId == 0 {
		return fmt.Errorf("%w: either introduction_id or employer_id is required", utils.ErrorValidation)
	}
	if input.IntroductionId != nil {
		introduction, err := utils.FetchModel[Introduction](ctx, db, *input.IntroductionId)
		if err != nil {
			return fmt.Errorf("%w: introduction %d", utils.ErrorRecordNotFound, *input.IntroductionId)
		}
		// the flag always carries the employer so ledger queries do not
		// need to join through introductions
		input.EmployerId = introduction.EmployerId
		return nil
	}
	return utils.ValidateResourceId[Employer](ctx, db, input.EmployerId)
}

// CreateCircumventionFlag opens a flag from manual review. Classifier-raised
// flags go through UpsertCheckInFlag instead.
func CreateCircumventionFlag(ctx context.Context, db *gorm.DB, input *NewCircumventionFlag) (*CircumventionFlag, error) {
	if err := input.validate(ctx, db); err != nil {
		return nil, err
	}

	detectionMethod := DetectionMethodManual
	if input.DetectionMethod != nil {
		detectionMethod = *input.DetectionMethod
	}

	now := time.Now().UTC()
	flag := CircumventionFlag{
		IntroductionId:   input.IntroductionId,
		EmployerId:       input.EmployerId,
		DetectionMethod:  detectionMethod,
		EstimatedFeeOwed: input.EstimatedFeeOwed,
		Status:           FlagStatusOpen,
		DetectedAt:       now,
		Notes:            input.Notes,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&flag).Error; err != nil {
			return err
		}
		return PublishEvent(ctx, tx, now, flag.ID, EventReferenceTypeFlag, flag, nil, EventActionCreate)
	})
	if err != nil {
		return nil, err
	}

	return &flag, nil
}

// UpsertCheckInFlag is the classifier's entry point, called inside the
// response transaction. A still-open check-in flag for the introduction is
// refreshed rather than duplicated; a flag already past OPEN/INVESTIGATING
// is left untouched because collection is in progress.
func UpsertCheckInFlag(ctx context.Context, tx *gorm.DB, introduction *Introduction, estimatedFeeOwed *decimal.Decimal) (*CircumventionFlag, error) {

	var existing CircumventionFlag

	err := tx.Where("introduction_id = ? AND detection_method = ?", introduction.ID, DetectionMethodCheckinResponse).
		Where("status NOT IN ?", []CircumventionFlagStatus{
			FlagStatusPaid,
			FlagStatusFalsePositive,
			FlagStatusWroteOff,
		}).
		First(&existing).Error

	if err == nil {
		if existing.Status != FlagStatusOpen && existing.Status != FlagStatusInvestigating {
			return &existing, nil
		}
		if estimatedFeeOwed == nil {
			return &existing, nil
		}
		before := existing
		updates := map[string]interface{}{"estimated_fee_owed": *estimatedFeeOwed}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := PublishEvent(ctx, tx, time.Now().UTC(), existing.ID, EventReferenceTypeFlag, existing, before, EventActionUpdate); err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	flag := CircumventionFlag{
		IntroductionId:   &introduction.ID,
		EmployerId:       introduction.EmployerId,
		DetectionMethod:  DetectionMethodCheckinResponse,
		EstimatedFeeOwed: estimatedFeeOwed,
		Status:           FlagStatusOpen,
		DetectedAt:       now,
	}
	if err := tx.Create(&flag).Error; err != nil {
		return nil, err
	}
	if err := PublishEvent(ctx, tx, now, flag.ID, EventReferenceTypeFlag, flag, nil, EventActionCreate); err != nil {
		return nil, err
	}
	return &flag, nil
}

type CircumventionFlagStatusUpdate struct {
	Status        CircumventionFlagStatus `json:"status" binding:"required"`
	InvoiceAmount *decimal.Decimal        `json:"invoice_amount"`
	Notes         *string                 `json:"notes"`
}

// UpdateCircumventionFlagStatus moves a flag along the ledger lifecycle.
// Closed flags admit no further moves, and an invoice amount must be known
// before a flag can be marked INVOICE_SENT.
func UpdateCircumventionFlagStatus(ctx context.Context, db *gorm.DB, id int, input *CircumventionFlagStatusUpdate) (*CircumventionFlag, error) {
	flag, err := utils.FetchModel[CircumventionFlag](ctx, db, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateCircumventionFlagTransition(flag.Status, input.Status); err != nil {
		return nil, err
	}

	if input.Status == FlagStatusInvoiceSent && input.InvoiceAmount == nil && flag.InvoiceAmount == nil {
		return nil, fmt.Errorf("%w: invoice_amount is required to mark a flag INVOICE_SENT", utils.ErrorValidation)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{"status": input.Status}
	if input.InvoiceAmount != nil {
		updates["invoice_amount"] = *input.InvoiceAmount
	}
	if input.Notes != nil {
		notes := *input.Notes
		if flag.Notes != nil && *flag.Notes != "" {
			notes = *flag.Notes + "\n" + notes
		}
		updates["notes"] = notes
	}
	if input.Status.IsClosed() {
		updates["resolved_at"] = now
	}

	before := *flag
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(flag).Updates(updates).Error; err != nil {
			return err
		}
		return PublishEvent(ctx, tx, now, flag.ID, EventReferenceTypeFlag, flag, before, EventActionUpdate)
	})
	if err != nil {
		return nil, err
	}

	return utils.FetchModel[CircumventionFlag](ctx, db, id)
}

func GetCircumventionFlagDetail(ctx context.Context, db *gorm.DB, id int) (*CircumventionFlag, error) {
	return utils.FetchModel[CircumventionFlag](ctx, db, id, "Introduction", "Introduction.Candidate", "Employer")
}

type CircumventionFlagFilter struct {
	Status          *CircumventionFlagStatus `form:"status" json:"status"`
	DetectionMethod *DetectionMethod         `form:"detection_method" json:"detection_method"`
	EmployerId      *int                     `form:"employer_id" json:"employer_id"`
}

func ListCircumventionFlags(ctx context.Context, db *gorm.DB, filter CircumventionFlagFilter, page PageParams) ([]*CircumventionFlag, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&CircumventionFlag{})
	if filter.Status != nil {
		dbCtx = dbCtx.Where("status = ?", *filter.Status)
	}
	if filter.DetectionMethod != nil {
		dbCtx = dbCtx.Where("detection_method = ?", *filter.DetectionMethod)
	}
	if filter.EmployerId != nil && *filter.EmployerId > 0 {
		dbCtx = dbCtx.Where("employer_id = ?", *filter.EmployerId)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*CircumventionFlag
	err := dbCtx.Preload("Introduction").Preload("Employer").
		Order("detected_at DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// CircumventionRevenue is money at risk and money recovered, in minor units.
// potential counts estimates on flags still being pursued, collected counts
// invoices paid, pending counts invoices sent but unpaid.
type CircumventionRevenue struct {
	Potential decimal.Decimal `json:"potential"`
	Collected decimal.Decimal `json:"collected"`
	Pending   decimal.Decimal `json:"pending"`
}

type DetectionMethodCount struct {
	Method DetectionMethod `json:"method"`
	Count  int64           `json:"count"`
}

type CircumventionStats struct {
	Total            int64                             `json:"total"`
	ByStatus         map[CircumventionFlagStatus]int64 `json:"byStatus"`
	ActionRequired   int64                             `json:"actionRequired"`
	RecentFlags      int64                             `json:"recentFlags"`
	Revenue          CircumventionRevenue              `json:"revenue"`
	DetectionMethods []*DetectionMethodCount           `json:"detectionMethods"`
}

// GetCircumventionStats aggregates the ledger. Null money columns count as
// zero, and every status appears in byStatus even when its count is zero so
// the payload shape is stable for dashboards.
func GetCircumventionStats(ctx context.Context, db *gorm.DB) (*CircumventionStats, error) {
	dbCtx := db.WithContext(ctx)

	var statusRows []flagStatusCount
	err := dbCtx.Table("circumvention_flags").
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, err
	}

	var recent int64
	err = dbCtx.Model(&CircumventionFlag{}).
		Where("detected_at >= ?", time.Now().UTC().AddDate(0, 0, -30)).
		Count(&recent).Error
	if err != nil {
		return nil, err
	}

	var revenue CircumventionRevenue
	err = dbCtx.Table("circumvention_flags").
		Select("COALESCE(SUM(CASE WHEN status IN ('OPEN', 'INVESTIGATING', 'INVOICE_SENT') THEN COALESCE(estimated_fee_owed, 0) ELSE 0 END), 0) AS potential, " +
			"COALESCE(SUM(CASE WHEN status = 'PAID' THEN COALESCE(invoice_amount, 0) ELSE 0 END), 0) AS collected, " +
			"COALESCE(SUM(CASE WHEN status = 'INVOICE_SENT' THEN COALESCE(invoice_amount, 0) ELSE 0 END), 0) AS pending").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}

	var methods []*DetectionMethodCount
	err = dbCtx.Table("circumvention_flags").
		Select("detection_method AS method, COUNT(*) AS count").
		Group("detection_method").
		Order("count DESC").
		Scan(&methods).Error
	if err != nil {
		return nil, err
	}

	return assembleCircumventionStats(statusRows, recent, revenue, methods), nil
}

type flagStatusCount struct {
	Status CircumventionFlagStatus
	Count  int64
}

// assembleCircumventionStats folds the grouped rows into the response shape.
// Statuses with no rows stay present at zero.
func assembleCircumventionStats(statusRows []flagStatusCount, recent int64, revenue CircumventionRevenue, methods []*DetectionMethodCount) *CircumventionStats {
	stats := CircumventionStats{
		ByStatus: map[CircumventionFlagStatus]int64{
			FlagStatusOpen:          0,
			FlagStatusInvestigating: 0,
			FlagStatusInvoiceSent:   0,
			FlagStatusPaid:          0,
			FlagStatusDisputed:      0,
			FlagStatusFalsePositive: 0,
			FlagStatusWroteOff:      0,
		},
		RecentFlags:      recent,
		Revenue:          revenue,
		DetectionMethods: methods,
	}
	if stats.DetectionMethods == nil {
		stats.DetectionMethods = []*DetectionMethodCount{}
	}

	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}
	stats.ActionRequired = stats.ByStatus[FlagStatusOpen] + stats.ByStatus[FlagStatusInvestigating]

	return &stats
}
