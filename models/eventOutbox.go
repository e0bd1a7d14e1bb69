package models

import (
	"time"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
)

type EventReferenceType string

const (
	EventReferenceTypeIntroduction EventReferenceType = "INTRODUCTION"
	EventReferenceTypeCheckIn      EventReferenceType = "CHECKIN"
	EventReferenceTypeFlag         EventReferenceType = "FLAG"
	EventReferenceTypePlacement    EventReferenceType = "PLACEMENT"
)

type EventAction string

const (
	EventActionCreate EventAction = "C"
	EventActionUpdate EventAction = "U"
	EventActionDelete EventAction = "D"
)

// Outbox publish statuses for EventRecord.PublishStatus.
// Keep these as strings (DB values).
const (
	EventPublishStatusPending    = "PENDING"
	EventPublishStatusProcessing = "PROCESSING"
	EventPublishStatusSent       = "SENT"
	EventPublishStatusFailed     = "FAILED"
	EventPublishStatusDead       = "DEAD"
)

// EventRecord is one row of the transactional outbox. Rows are written in
// the same transaction as the domain change and drained by the event
// dispatcher after commit.
type EventRecord struct {
	ID            int                `gorm:"primary_key;index:idx_event_dispatch,priority:3" json:"id"`
	OccurredAt    time.Time          `gorm:"index;not null" json:"occurred_at"`
	ReferenceId   int                `json:"reference_id"`
	ReferenceType EventReferenceType `gorm:"type:enum('INTRODUCTION','CHECKIN','FLAG','PLACEMENT')" json:"reference_type"`
	Action        EventAction        `gorm:"type:enum('C','U','D')" json:"action"`
	OldObj        []byte             `gorm:"type:blob" json:"old_obj"`
	NewObj        []byte             `gorm:"type:blob" json:"new_obj"`
	// Publish metadata (publish happens after commit via dispatcher).
	PublishStatus    string     `gorm:"size:20;index;not null;default:'PENDING';index:idx_event_dispatch,priority:1" json:"publish_status"` // PENDING|PROCESSING|SENT|FAILED|DEAD
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	PubSubMessageId  *string    `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int        `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time `gorm:"index;index:idx_event_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time `gorm:"index" json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	LastPublishError *string    `gorm:"type:text" json:"last_publish_error"`
	CorrelationId    string     `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func ConvertToPubSubMessage(record EventRecord) config.PubSubMessage {
	return config.PubSubMessage{
		ID:            record.ID,
		OccurredAt:    record.OccurredAt,
		ReferenceId:   record.ReferenceId,
		ReferenceType: string(record.ReferenceType),
		Action:        string(record.Action),
		OldObj:        record.OldObj,
		NewObj:        record.NewObj,
		CorrelationId: record.CorrelationId,
	}
}
