package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

type Job struct {
	ID              int              `gorm:"primary_key" json:"id"`
	EmployerId      int              `gorm:"not null;index" json:"employer_id" binding:"required"`
	Title           string           `gorm:"size:255;not null" json:"title" binding:"required"`
	Description     string           `gorm:"type:text" json:"description"`
	Location        *string          `gorm:"size:255" json:"location"`
	SalaryMin       *decimal.Decimal `gorm:"type:decimal(20,4)" json:"salary_min"`
	SalaryMax       *decimal.Decimal `gorm:"type:decimal(20,4)" json:"salary_max"`
	ExperienceLevel *ExperienceLevel `gorm:"size:50" json:"experience_level"`
	Status          JobStatus        `gorm:"type:enum('OPEN','FILLED','CLOSED');not null;default:'OPEN';index" json:"status"`
	Employer        *Employer        `json:"employer,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// EstimatedSalary is the best salary figure available for fee estimates,
// preferring the top of the advertised band. Nil when the posting has none.
func (j *Job) EstimatedSalary() *decimal.Decimal {
	if j.SalaryMax != nil {
		return j.SalaryMax
	}
	return j.SalaryMin
}

type NewJob struct {
	EmployerId      int              `json:"employer_id" binding:"required"`
	Title           string           `json:"title" binding:"required"`
	Description     string           `json:"description"`
	Location        *string          `json:"location"`
	SalaryMin       *decimal.Decimal `json:"salary_min"`
	SalaryMax       *decimal.Decimal `json:"salary_max"`
	ExperienceLevel *ExperienceLevel `json:"experience_level"`
}

func (input *NewJob) validate(ctx context.Context, db *gorm.DB) error {
	if err := utils.ValidateResourceId[Employer](ctx, db, input.EmployerId); err != nil {
		return fmt.Errorf("%w: employer %d", utils.ErrorRecordNotFound, input.EmployerId)
	}
	if input.SalaryMin != nil && input.SalaryMin.IsNegative() {
		return fmt.Errorf("%w: salary_min must not be negative", utils.ErrorValidation)
	}
	if input.SalaryMax != nil && input.SalaryMax.IsNegative() {
		return fmt.Errorf("%w: salary_max must not be negative", utils.ErrorValidation)
	}
	if input.SalaryMin != nil && input.SalaryMax != nil && input.SalaryMax.LessThan(*input.SalaryMin) {
		return fmt.Errorf("%w: salary_max must not be below salary_min", utils.ErrorValidation)
	}
	return nil
}

func CreateJob(ctx context.Context, db *gorm.DB, input *NewJob) (*Job, error) {
	if err := input.validate(ctx, db); err != nil {
		return nil, err
	}

	job := Job{
		EmployerId:      input.EmployerId,
		Title:           input.Title,
		Description:     input.Description,
		Location:        input.Location,
		SalaryMin:       input.SalaryMin,
		SalaryMax:       input.SalaryMax,
		ExperienceLevel: input.ExperienceLevel,
		Status:          JobStatusOpen,
	}
	if err := db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, err
	}

	return &job, nil
}

func UpdateJob(ctx context.Context, db *gorm.DB, id int, input *NewJob) (*Job, error) {
	job, err := utils.FetchModel[Job](ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, db); err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&job).Updates(map[string]interface{}{
		"Title":           input.Title,
		"Description":     input.Description,
		"Location":        input.Location,
		"SalaryMin":       input.SalaryMin,
		"SalaryMax":       input.SalaryMax,
		"ExperienceLevel": input.ExperienceLevel,
	}).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Job](id); err != nil {
		return nil, err
	}

	return job, nil
}

// UpdateJobStatus closes or fills a posting. Any move between the three
// statuses is allowed except reopening a FILLED job.
func UpdateJobStatus(ctx context.Context, db *gorm.DB, id int, newStatus JobStatus) (*Job, error) {
	job, err := utils.FetchModel[Job](ctx, db, id)
	if err != nil {
		return nil, err
	}
	if job.Status == JobStatusFilled && newStatus == JobStatusOpen {
		return nil, fmt.Errorf("%w: a filled job cannot be reopened", utils.ErrorValidation)
	}

	if err := db.WithContext(ctx).Model(&job).Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Job](id); err != nil {
		return nil, err
	}
	return job, nil
}

func DeleteJob(ctx context.Context, db *gorm.DB, id int) (*Job, error) {
	job, err := utils.FetchModel[Job](ctx, db, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Application](ctx, db, "job_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: job has applications and cannot be deleted", utils.ErrorValidation)
	}

	if err = db.WithContext(ctx).Delete(&job).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Job](id); err != nil {
		return nil, err
	}
	return job, nil
}

func GetJob(ctx context.Context, db *gorm.DB, id int) (*Job, error) {
	return utils.FetchModel[Job](ctx, db, id, "Employer")
}

type JobFilter struct {
	EmployerId      *int             `form:"employer_id" json:"employer_id"`
	Status          *JobStatus       `form:"status" json:"status"`
	ExperienceLevel *ExperienceLevel `form:"experience_level" json:"experience_level"`
}

func ListJobs(ctx context.Context, db *gorm.DB, filter JobFilter, page PageParams) ([]*Job, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&Job{})
	if filter.EmployerId != nil && *filter.EmployerId > 0 {
		dbCtx = dbCtx.Where("employer_id = ?", *filter.EmployerId)
	}
	if filter.Status != nil {
		dbCtx = dbCtx.Where("status = ?", *filter.Status)
	}
	if filter.ExperienceLevel != nil {
		dbCtx = dbCtx.Where("experience_level = ?", *filter.ExperienceLevel)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*Job
	err := dbCtx.Preload("Employer").
		Order("created_at DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
