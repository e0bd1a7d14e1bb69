package models

import (
	"context"
	"fmt"
	"time"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

type Assessment struct {
	ID          int        `gorm:"primary_key" json:"id"`
	CandidateId int        `gorm:"not null;index" json:"candidate_id" binding:"required"`
	SkillName   string     `gorm:"size:200;not null" json:"skill_name" binding:"required"`
	Score       int        `gorm:"not null" json:"score"`
	TakenAt     time.Time  `gorm:"not null" json:"taken_at"`
	Candidate   *Candidate `json:"candidate,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

type NewAssessment struct {
	CandidateId int    `json:"candidate_id" binding:"required"`
	SkillName   string `json:"skill_name" binding:"required"`
	Score       int    `json:"score"`
}

func (input *NewAssessment) validate(ctx context.Context, db *gorm.DB) error {
	if err := utils.ValidateResourceId[Candidate](ctx, db, input.CandidateId); err != nil {
		return fmt.Errorf("%w: candidate %d", utils.ErrorRecordNotFound, input.CandidateId)
	}
	if input.Score < 0 || input.Score > 100 {
		return fmt.Errorf("%w: score must be between 0 and 100", utils.ErrorValidation)
	}
	return nil
}

func CreateAssessment(ctx context.Context, db *gorm.DB, input *NewAssessment) (*Assessment, error) {
	if err := input.validate(ctx, db); err != nil {
		return nil, err
	}

	assessment := Assessment{
		CandidateId: input.CandidateId,
		SkillName:   input.SkillName,
		Score:       input.Score,
		TakenAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&assessment).Error; err != nil {
		return nil, err
	}

	return &assessment, nil
}

func ListAssessments(ctx context.Context, db *gorm.DB, candidateId int) ([]*Assessment, error) {

	var results []*Assessment

	err := db.WithContext(ctx).
		Where("candidate_id = ?", candidateId).
		Order("taken_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
