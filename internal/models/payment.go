package models

import (
	"time"
)

type Payment struct {
	ID uint `gorm:"primaryKey" json:"-"`

	// PaymentID is "<method>_<order id>", e.g. wave_ACN-7f3c...
	PaymentID string `gorm:"size:80;uniqueIndex;not null" json:"paymentId"`
	OrderID   string `gorm:"size:64;not null;index" json:"orderId"`

	ProcessorIntentID string `gorm:"size:255;index" json:"processorIntentId,omitempty"`
	ProcessorChargeID string `gorm:"size:255;index" json:"processorChargeId,omitempty"`

	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"size:3;default:'EUR'" json:"currency"`
	Method   string  `gorm:"size:20;not null" json:"method"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	// ProcessorStatus mirrors the processor's own sub-state, e.g. "succeeded".
	ProcessorStatus string `gorm:"size:40" json:"processorStatus,omitempty"`

	CustomerEmail string `gorm:"size:255" json:"customerEmail,omitempty"`
	CustomerPhone string `gorm:"size:50" json:"customerPhone,omitempty"`

	Metadata string `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	ErrorMessage string `gorm:"type:text" json:"errorMessage,omitempty"`
	RetryCount   int    `gorm:"default:0" json:"retryCount"`
}

func (Payment) TableName() string {
	return "payments"
}
