package models

import (
	"time"
)

// ProcessorEvent is an append-only log row for inbound processor webhooks.
// EventID is the processor's own event id and the idempotency key: a second
// delivery with the same id hits the unique index and is never re-applied.
type ProcessorEvent struct {
	ID uint `gorm:"primaryKey" json:"-"`

	EventID   string `gorm:"size:255;uniqueIndex;not null" json:"eventId"`
	EventType string `gorm:"size:100;not null;index" json:"eventType"`

	PaymentIntentID string `gorm:"size:255;index" json:"paymentIntentId,omitempty"`
	CustomerID      string `gorm:"size:255" json:"customerId,omitempty"`

	Payload string `gorm:"type:text" json:"payload,omitempty"`

	Processed    bool       `gorm:"default:false" json:"processed"`
	ProcessedAt  *time.Time `json:"processedAt,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"errorMessage,omitempty"`

	ReceivedAt time.Time `gorm:"index" json:"receivedAt"`
}

func (ProcessorEvent) TableName() string {
	return "processor_events"
}
