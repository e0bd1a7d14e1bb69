package models

import (
	"context"
	"fmt"
	"time"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

// Introduction is a candidate-to-employer match event that may lead to a
// hire. It owns its check-ins; placements and circumvention flags reference
// it without owning it.
type Introduction struct {
	ID           int                `gorm:"primary_key" json:"id"`
	CandidateId  int                `gorm:"not null;index" json:"candidate_id" binding:"required"`
	EmployerId   int                `gorm:"not null;index" json:"employer_id" binding:"required"`
	JobId        *int               `gorm:"index" json:"job_id"`
	Status       IntroductionStatus `gorm:"type:enum('INTRODUCED','AWAITING_RESPONSE','CONFIRMED','DECLINED','PLACED','EXPIRED');not null;default:'INTRODUCED';index" json:"status"`
	IntroducedAt time.Time          `gorm:"not null;index" json:"introduced_at"`
	Candidate    *Candidate         `json:"candidate,omitempty"`
	Employer     *Employer          `json:"employer,omitempty"`
	Job          *Job               `json:"job,omitempty"`
	CheckIns     []*CheckIn         `gorm:"constraint:OnDelete:CASCADE" json:"check_ins,omitempty"`
	CreatedAt    time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewIntroduction struct {
	CandidateId  int        `json:"candidate_id" binding:"required"`
	EmployerId   int        `json:"employer_id" binding:"required"`
	JobId        *int       `json:"job_id"`
	IntroducedAt *time.Time `json:"introduced_at"`
}

func (input *NewIntroduction) validate(ctx context.Context, db *gorm.DB) error {
	rules := []utils.ValidationRule[int]{
		{Model: Candidate{}, Ids: []int{input.CandidateId}, Message: "candidate not found"},
		{Model: Employer{}, Ids: []int{input.EmployerId}, Message: "employer not found"},
	}
	if err := utils.MassValidateResourceIds(ctx, db, rules); err != nil {
		return err
	}
	if input.JobId != nil {
		job, err := utils.FetchModel[Job](ctx, db, *input.JobId)
		if err != nil {
			return fmt.Errorf("%w: job %d", utils.ErrorRecordNotFound, *input.JobId)
		}
		if job.EmployerId != input.EmployerId {
			return fmt.Errorf("%w: job does not belong to employer", utils.ErrorValidation)
		}
	}
	return nil
}

func CreateIntroduction(ctx context.Context, db *gorm.DB, input *NewIntroduction) (*Introduction, error) {
	if err := input.validate(ctx, db); err != nil {
		return nil, err
	}

	introducedAt := time.Now().UTC()
	if input.IntroducedAt != nil {
		introducedAt = input.IntroducedAt.UTC()
	}

	introduction := Introduction{
		CandidateId:  input.CandidateId,
		EmployerId:   input.EmployerId,
		JobId:        input.JobId,
		Status:       IntroductionStatusIntroduced,
		IntroducedAt: introducedAt,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&introduction).Error; err != nil {
			return err
		}
		return PublishEvent(ctx, tx, introducedAt, introduction.ID, EventReferenceTypeIntroduction, introduction, nil, EventActionCreate)
	})
	if err != nil {
		return nil, err
	}

	return &introduction, nil
}

// UpdateIntroductionStatus moves an introduction along its lifecycle. The
// edge must be in the transition table; terminal statuses admit no exits.
func UpdateIntroductionStatus(ctx context.Context, db *gorm.DB, id int, newStatus IntroductionStatus) (*Introduction, error) {
	introduction, err := utils.FetchModel[Introduction](ctx, db, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateIntroductionTransition(introduction.Status, newStatus); err != nil {
		return nil, err
	}

	before := *introduction
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(introduction).Update("status", newStatus).Error; err != nil {
			return err
		}
		return PublishEvent(ctx, tx, time.Now().UTC(), introduction.ID, EventReferenceTypeIntroduction, introduction, before, EventActionUpdate)
	})
	if err != nil {
		return nil, err
	}

	return introduction, nil
}

func GetIntroductionDetail(ctx context.Context, db *gorm.DB, id int) (*Introduction, error) {
	return utils.FetchModel[Introduction](ctx, db, id, "Candidate", "Employer", "Job", "CheckIns")
}

func ListIntroductions(ctx context.Context, db *gorm.DB, status *IntroductionStatus, employerId *int, page PageParams) ([]*Introduction, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&Introduction{})
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if employerId != nil && *employerId > 0 {
		dbCtx = dbCtx.Where("employer_id = ?", *employerId)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*Introduction
	err := dbCtx.Preload("Candidate").Preload("Employer").Preload("Job").
		Order("introduced_at DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
