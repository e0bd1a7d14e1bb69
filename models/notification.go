package models

import (
	"context"
	"time"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

// Notification is the delivery record for outbound mail and in-app messages.
// The check-in scheduler records one row per dispatched email, in the same
// transaction that marks the check-in sent.
type Notification struct {
	ID             int              `gorm:"primary_key" json:"id"`
	RecipientEmail string           `gorm:"size:255;not null;index" json:"recipient_email"`
	Kind           NotificationKind `gorm:"size:50;not null" json:"kind"`
	Subject        string           `gorm:"size:500;not null" json:"subject"`
	Body           string           `gorm:"type:text" json:"body"`
	ReferenceId    *int             `gorm:"index" json:"reference_id"`
	SentAt         *time.Time       `json:"sent_at"`
	ReadAt         *time.Time       `json:"read_at"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func CreateNotification(ctx context.Context, db *gorm.DB, notification *Notification) error {
	return db.WithContext(ctx).Create(notification).Error
}

// MarkNotificationRead stamps read_at. A non-empty recipientEmail scopes the
// lookup to that recipient; rows belonging to someone else read as missing
// rather than forbidden.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id int, recipientEmail string) (*Notification, error) {
	notification, err := utils.FetchModel[Notification](ctx, db, id)
	if err != nil {
		return nil, err
	}
	if recipientEmail != "" && notification.RecipientEmail != recipientEmail {
		return nil, utils.ErrorRecordNotFound
	}
	if notification.ReadAt == nil {
		now := time.Now().UTC()
		if err := db.WithContext(ctx).Model(notification).Update("read_at", now).Error; err != nil {
			return nil, err
		}
	}
	return notification, nil
}

func ListNotifications(ctx context.Context, db *gorm.DB, recipientEmail string, page PageParams) ([]*Notification, *PageInfo, error) {
	page.Normalize()

	dbCtx := db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_email = ?", recipientEmail)

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*Notification
	err := dbCtx.Order("created_at DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&results).Error
	if err != nil {
		return nil, nil, err
	}

	return results, &PageInfo{Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
