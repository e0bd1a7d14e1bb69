package models

import (
	"context"
	"fmt"
	"time"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

type Interview struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ApplicationId   int             `gorm:"not null;index" json:"application_id" binding:"required"`
	ScheduledAt     time.Time       `gorm:"not null" json:"scheduled_at" binding:"required"`
	DurationMinutes int             `gorm:"not null;default:60" json:"duration_minutes"`
	Location        *string         `gorm:"size:255" json:"location"`
	MeetingUrl      *string         `gorm:"size:500" json:"meeting_url"`
	Status          InterviewStatus `gorm:"type:enum('SCHEDULED','COMPLETED','CANCELLED','NO_SHOW');not null;default:'SCHEDULED'" json:"status"`
	Notes           *string         `gorm:"type:text" json:"notes"`
	Application     *Application    `json:"application,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInterview struct {
	ApplicationId   int       `json:"application_id" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes *int      `json:"duration_minutes"`
	Location        *string   `json:"location"`
	MeetingUrl      *string   `json:"meeting_url"`
	Notes           *string   `json:"notes"`
}

func (input *NewInterview) validate(ctx context.Context, db *gorm.DB) error {
	application, err := utils.FetchModel[Application](ctx, db, input.ApplicationId)
	if err != nil {
		return fmt.Errorf("%w: application %d", utils.ErrorRecordNotFound, input.ApplicationId)
	}
	switch application.Status {
	case ApplicationStatusInReview, ApplicationStatusInterviewing, ApplicationStatusOffered:
	default:
		return fmt.Errorf("%w: application is not in an interviewable status", utils.ErrorValidation)
	}
	if input.ScheduledAt.Before(time.Now().UTC()) {
		return fmt.Errorf("%w: interview must be scheduled in the future", utils.ErrorValidation)
	}
	if input.DurationMinutes != nil && *input.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive", utils.ErrorValidation)
	}
	return nil
}

func CreateInterview(ctx context.Context, db *gorm.DB, input *NewInterview) (*Interview, error) {
	if err := input.validate(ctx, db); err != nil {
		return nil, err
	}

	duration := 60
	if input.DurationMinutes != nil {
		duration = *input.DurationMinutes
	}

	interview := Interview{
		ApplicationId:   input.ApplicationId,
		ScheduledAt:     input.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Location:        input.Location,
		MeetingUrl:      input.MeetingUrl,
		Status:          InterviewStatusScheduled,
		Notes:           input.Notes,
	}
	if err := db.WithContext(ctx).Create(&interview).Error; err != nil {
		return nil, err
	}

	return &interview, nil
}

func UpdateInterviewStatus(ctx context.Context, db *gorm.DB, id int, newStatus InterviewStatus, notes *string) (*Interview, error) {
	interview, err := utils.FetchModel[Interview](ctx, db, id)
	if err != nil {
		return nil, err
	}
	if interview.Status != InterviewStatusScheduled {
		return nil, fmt.Errorf("%w: only a scheduled interview can change status", utils.ErrorValidation)
	}

	updates := map[string]interface{}{"status": newStatus}
	if notes != nil {
		updates["notes"] = *notes
	}
	if err := db.WithContext(ctx).Model(&interview).Updates(updates).Error; err != nil {
		return nil, err
	}

	return interview, nil
}

func GetInterview(ctx context.Context, db *gorm.DB, id int) (*Interview, error) {
	return utils.FetchModel[Interview](ctx, db, id, "Application", "Application.Job", "Application.Candidate")
}

func ListInterviews(ctx context.Context, db *gorm.DB, applicationId *int, page PageParams) ([]*Interview, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&Interview{})
	if applicationId != nil && *applicationId > 0 {
		dbCtx = dbCtx.Where("application_id = ?", *applicationId)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*Interview
	err := dbCtx.Order("scheduled_at ASC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
