package models

import (
	"context"
	"fmt"
	"time"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

type Employer struct {
	ID           int       `gorm:"primary_key" json:"id"`
	UserId       *int      `gorm:"index" json:"user_id"`
	CompanyName  string    `gorm:"size:255;uniqueIndex;not null" json:"company_name" binding:"required"`
	ContactName  string    `gorm:"size:200;not null" json:"contact_name" binding:"required"`
	ContactEmail string    `gorm:"size:255;not null" json:"contact_email" binding:"required"`
	Phone        string    `gorm:"size:50" json:"phone"`
	Website      *string   `gorm:"size:500" json:"website"`
	Industry     *string   `gorm:"size:200" json:"industry"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEmployer struct {
	UserId       *int    `json:"user_id"`
	CompanyName  string  `json:"company_name" binding:"required"`
	ContactName  string  `json:"contact_name" binding:"required"`
	ContactEmail string  `json:"contact_email" binding:"required"`
	Phone        string  `json:"phone"`
	Website      *string `json:"website"`
	Industry     *string `json:"industry"`
}

func (input *NewEmployer) validate(ctx context.Context, db *gorm.DB, id int) error {
	if !utils.IsValidEmail(input.ContactEmail) {
		return fmt.Errorf("%w: invalid contact email address", utils.ErrorValidation)
	}
	if err := utils.ValidateUnique[Employer](ctx, db, "company_name", input.CompanyName, id); err != nil {
		return err
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	return nil
}

func CreateEmployer(ctx context.Context, db *gorm.DB, input *NewEmployer) (*Employer, error) {
	if err := input.validate(ctx, db, 0); err != nil {
		return nil, err
	}

	employer := Employer{
		UserId:       input.UserId,
		CompanyName:  input.CompanyName,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
		Phone:        input.Phone,
		Website:      input.Website,
		Industry:     input.Industry,
		IsActive:     utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&employer).Error; err != nil {
		return nil, err
	}

	return &employer, nil
}

func UpdateEmployer(ctx context.Context, db *gorm.DB, id int, input *NewEmployer) (*Employer, error) {
	employer, err := utils.FetchModel[Employer](ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, db, id); err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&employer).Updates(map[string]interface{}{
		"CompanyName":  input.CompanyName,
		"ContactName":  input.ContactName,
		"ContactEmail": input.ContactEmail,
		"Phone":        input.Phone,
		"Website":      input.Website,
		"Industry":     input.Industry,
	}).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Employer](id); err != nil {
		return nil, err
	}

	return employer, nil
}

func DeleteEmployer(ctx context.Context, db *gorm.DB, id int) (*Employer, error) {
	employer, err := utils.FetchModel[Employer](ctx, db, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Introduction](ctx, db, "employer_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: employer has introductions and cannot be deleted", utils.ErrorValidation)
	}

	if err = db.WithContext(ctx).Delete(&employer).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Employer](id); err != nil {
		return nil, err
	}
	return employer, nil
}

func ToggleActiveEmployer(ctx context.Context, db *gorm.DB, id int, isActive bool) (*Employer, error) {
	return ToggleActiveModel[Employer](ctx, db, id, isActive)
}

func GetEmployer(ctx context.Context, db *gorm.DB, id int) (*Employer, error) {
	return GetResource[Employer](ctx, db, id)
}

func ListEmployers(ctx context.Context, db *gorm.DB, isActive *bool, page PageParams) ([]*Employer, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&Employer{})
	if isActive != nil {
		dbCtx = dbCtx.Where("is_active = ?", *isActive)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*Employer
	err := dbCtx.Order("company_name ASC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
