package models

import (
	"time"
)

// Customer is a denormalized, read-optimized side table keyed by email.
// It is maintained best-effort and is never authoritative.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"-"`

	CustomerID          string `gorm:"size:64;index" json:"customerId,omitempty"`
	ProcessorCustomerID string `gorm:"size:255;index" json:"processorCustomerId,omitempty"`

	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName string `gorm:"size:100" json:"firstName,omitempty"`
	LastName  string `gorm:"size:100" json:"lastName,omitempty"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`

	Address string `gorm:"size:255" json:"address,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`
	Postal  string `gorm:"size:20" json:"postal,omitempty"`
	Country string `gorm:"size:100" json:"country,omitempty"`

	TotalOrders   int        `gorm:"default:0" json:"totalOrders"`
	TotalSpent    float64    `gorm:"default:0" json:"totalSpent"`
	LastOrderDate *time.Time `json:"lastOrderDate,omitempty"`

	IsSubscribed bool `gorm:"default:false" json:"isSubscribed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}
