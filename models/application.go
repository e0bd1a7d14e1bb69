package models

import (
	"context"
	"fmt"
	"time"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

type Application struct {
	ID          int               `gorm:"primary_key" json:"id"`
	JobId       int               `gorm:"not null;uniqueIndex:idx_application_job_candidate,priority:1" json:"job_id" binding:"required"`
	CandidateId int               `gorm:"not null;uniqueIndex:idx_application_job_candidate,priority:2" json:"candidate_id" binding:"required"`
	Status      ApplicationStatus `gorm:"type:enum('APPLIED','IN_REVIEW','INTERVIEWING','OFFERED','HIRED','REJECTED','WITHDRAWN');not null;default:'APPLIED';index" json:"status"`
	CoverLetter *string           `gorm:"type:text" json:"cover_letter"`
	AppliedAt   time.Time         `gorm:"not null" json:"applied_at"`
	Job         *Job              `json:"job,omitempty"`
	Candidate   *Candidate        `json:"candidate,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewApplication struct {
	JobId       int     `json:"job_id" binding:"required"`
	CandidateId int     `json:"candidate_id" binding:"required"`
	CoverLetter *string `json:"cover_letter"`
}

func (input *NewApplication) validate(ctx context.Context, db *gorm.DB) error {
	job, err := utils.FetchModel[Job](ctx, db, input.JobId)
	if err != nil {
		return fmt.Errorf("%w: job %d", utils.ErrorRecordNotFound, input.JobId)
	}
	if job.Status != JobStatusOpen {
		return fmt.Errorf("%w: job is not open for applications", utils.ErrorValidation)
	}
	if err := utils.ValidateResourceId[Candidate](ctx, db, input.CandidateId); err != nil {
		return fmt.Errorf("%w: candidate %d", utils.ErrorRecordNotFound, input.CandidateId)
	}
	return nil
}

func CreateApplication(ctx context.Context, db *gorm.DB, input *NewApplication) (*Application, error) {
	if err := input.validate(ctx, db); err != nil {
		return nil, err
	}

	application := Application{
		JobId:       input.JobId,
		CandidateId: input.CandidateId,
		Status:      ApplicationStatusApplied,
		CoverLetter: input.CoverLetter,
		AppliedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&application).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("%w: candidate has already applied to this job", utils.ErrorValidation)
		}
		return nil, err
	}

	return &application, nil
}

func UpdateApplicationStatus(ctx context.Context, db *gorm.DB, id int, newStatus ApplicationStatus) (*Application, error) {
	application, err := utils.FetchModel[Application](ctx, db, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateApplicationTransition(application.Status, newStatus); err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&application).Update("status", newStatus).Error; err != nil {
		return nil, err
	}

	return application, nil
}

func GetApplication(ctx context.Context, db *gorm.DB, id int) (*Application, error) {
	return utils.FetchModel[Application](ctx, db, id, "Job", "Candidate")
}

type ApplicationFilter struct {
	JobId       *int               `form:"job_id" json:"job_id"`
	CandidateId *int               `form:"candidate_id" json:"candidate_id"`
	Status      *ApplicationStatus `form:"status" json:"status"`
}

func ListApplications(ctx context.Context, db *gorm.DB, filter ApplicationFilter, page PageParams) ([]*Application, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&Application{})
	if filter.JobId != nil && *filter.JobId > 0 {
		dbCtx = dbCtx.Where("job_id = ?", *filter.JobId)
	}
	if filter.CandidateId != nil && *filter.CandidateId > 0 {
		dbCtx = dbCtx.Where("candidate_id = ?", *filter.CandidateId)
	}
	if filter.Status != nil {
		dbCtx = dbCtx.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*Application
	err := dbCtx.Preload("Job").Preload("Candidate").
		Order("applied_at DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
