package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

type Candidate struct {
	ID              int              `gorm:"primary_key" json:"id"`
	UserId          *int             `gorm:"index" json:"user_id"`
	FirstName       string           `gorm:"size:100;not null" json:"first_name" binding:"required"`
	LastName        string           `gorm:"size:100;not null" json:"last_name" binding:"required"`
	Email           string           `gorm:"size:255;uniqueIndex;not null" json:"email" binding:"required"`
	Phone           string           `gorm:"size:50" json:"phone"`
	ExperienceLevel ExperienceLevel  `gorm:"size:50;not null;default:'ENTRY_LEVEL'" json:"experience_level"`
	DesiredSalary   *decimal.Decimal `gorm:"type:decimal(20,4)" json:"desired_salary"`
	LinkedinUrl     *string          `gorm:"size:500" json:"linkedin_url"`
	Skills          *string          `gorm:"type:text" json:"skills"`
	IsActive        *bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}

type NewCandidate struct {
	UserId          *int             `json:"user_id"`
	FirstName       string           `json:"first_name" binding:"required"`
	LastName        string           `json:"last_name" binding:"required"`
	Email           string           `json:"email" binding:"required"`
	Phone           string           `json:"phone"`
	ExperienceLevel *ExperienceLevel `json:"experience_level"`
	DesiredSalary   *decimal.Decimal `json:"desired_salary"`
	LinkedinUrl     *string          `json:"linkedin_url"`
	Skills          *string          `json:"skills"`
}

func (input *NewCandidate) validate(ctx context.Context, db *gorm.DB, id int) error {
	if !utils.IsValidEmail(input.Email) {
		return fmt.Errorf("%w: invalid email address", utils.ErrorValidation)
	}
	if err := utils.ValidateUnique[Candidate](ctx, db, "email", input.Email, id); err != nil {
		return err
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	return nil
}

func CreateCandidate(ctx context.Context, db *gorm.DB, input *NewCandidate) (*Candidate, error) {
	if err := input.validate(ctx, db, 0); err != nil {
		return nil, err
	}

	experienceLevel := ExperienceLevelEntry
	if input.ExperienceLevel != nil {
		experienceLevel = *input.ExperienceLevel
	}

	candidate := Candidate{
		UserId:          input.UserId,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Phone:           input.Phone,
		ExperienceLevel: experienceLevel,
		DesiredSalary:   input.DesiredSalary,
		LinkedinUrl:     input.LinkedinUrl,
		Skills:          input.Skills,
		IsActive:        utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&candidate).Error; err != nil {
		return nil, err
	}

	return &candidate, nil
}

func UpdateCandidate(ctx context.Context, db *gorm.DB, id int, input *NewCandidate) (*Candidate, error) {
	candidate, err := utils.FetchModel[Candidate](ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, db, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"FirstName":     input.FirstName,
		"LastName":      input.LastName,
		"Email":         input.Email,
		"Phone":         input.Phone,
		"DesiredSalary": input.DesiredSalary,
		"LinkedinUrl":   input.LinkedinUrl,
		"Skills":        input.Skills,
	}
	if input.ExperienceLevel != nil {
		updates["ExperienceLevel"] = *input.ExperienceLevel
	}
	if err := db.WithContext(ctx).Model(&candidate).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Candidate](id); err != nil {
		return nil, err
	}

	return candidate, nil
}

func DeleteCandidate(ctx context.Context, db *gorm.DB, id int) (*Candidate, error) {
	candidate, err := utils.FetchModel[Candidate](ctx, db, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Introduction](ctx, db, "candidate_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: candidate has introductions and cannot be deleted", utils.ErrorValidation)
	}

	if err = db.WithContext(ctx).Delete(&candidate).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Candidate](id); err != nil {
		return nil, err
	}
	return candidate, nil
}

func ToggleActiveCandidate(ctx context.Context, db *gorm.DB, id int, isActive bool) (*Candidate, error) {
	return ToggleActiveModel[Candidate](ctx, db, id, isActive)
}

func GetCandidate(ctx context.Context, db *gorm.DB, id int) (*Candidate, error) {
	return GetResource[Candidate](ctx, db, id)
}

type CandidateFilter struct {
	ExperienceLevel *ExperienceLevel `form:"experience_level" json:"experience_level"`
	IsActive        *bool            `form:"is_active" json:"is_active"`
}

func ListCandidates(ctx context.Context, db *gorm.DB, filter CandidateFilter, page PageParams) ([]*Candidate, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&Candidate{})
	if filter.ExperienceLevel != nil {
		dbCtx = dbCtx.Where("experience_level = ?", *filter.ExperienceLevel)
	}
	if filter.IsActive != nil {
		dbCtx = dbCtx.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*Candidate
	err := dbCtx.Order("created_at DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
