package models

import (
	"context"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

// GetResource is a redis read-through fetch for lookup-style reads.
// Associations are only preloaded on a cache miss, so callers that depend on
// them should fetch straight from the database instead.
func GetResource[T any](ctx context.Context, db *gorm.DB, id int, associations ...string) (*T, error) {

	// find in redis
	result, err := utils.RetrieveRedis[T](id)
	if err != nil {
		return nil, err
	}
	// if not found in redis
	if result == nil {
		// fetch from db
		result, err = utils.FetchModel[T](ctx, db, id, associations...)
		if err != nil {
			return nil, err
		}

		// store in redis
		if err := utils.StoreRedis[T](result, id); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// ToggleActiveModel flips is_active with UpdateColumn, which skips update
// hooks, so the history row is created directly here.
func ToggleActiveModel[T any](ctx context.Context, db *gorm.DB, id int, isActive bool) (*T, error) {

	var result *T
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err
	}

	tx := db.WithContext(ctx).Begin()
	Tx := tx.Model(&result).UpdateColumn("IsActive", isActive)
	if Tx.Error != nil {
		tx.Rollback()
		return nil, Tx.Error
	}

	referenceType := Tx.Statement.Table
	var actionType string
	if isActive {
		actionType = "*ACTIVE*"
	} else {
		actionType = "*INACTIVE*"
	}

	// create history without hook
	if err := createHistory(tx.WithContext(ctx), actionType, id, referenceType, nil, nil, "toggled "+utils.GetTypeName[T]()); err != nil {
		tx.Rollback()
		return nil, err
	}

	// clear cache
	if err := utils.RemoveRedisItem[T](id); err != nil {
		tx.Rollback()
		return nil, err
	}

	return result, tx.Commit().Error
}
