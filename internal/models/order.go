package models

import (
	"time"
)

// OrderItem is one line of an order, embedded as a JSON column.
type OrderItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category,omitempty"`
}

type Order struct {
	ID uint `gorm:"primaryKey" json:"-"`

	// Public order id, e.g. ACN-7f3c... Unique across both stores.
	OrderID string `gorm:"size:64;uniqueIndex;not null" json:"id"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`
	Email     string `gorm:"size:255;not null;index" json:"email"`
	Phone     string `gorm:"size:50;not null" json:"phone"`

	Address string `gorm:"size:255;not null" json:"address"`
	City    string `gorm:"size:100;not null" json:"city"`
	Postal  string `gorm:"size:20;not null" json:"postal"`
	Country string `gorm:"size:100;not null;default:'Bénin'" json:"country"`

	Items ItemList `gorm:"type:json" json:"items"`

	Subtotal    float64 `gorm:"not null" json:"subtotal"`
	ShippingFee float64 `gorm:"not null;default:2.5" json:"shippingFee"`
	Total       float64 `gorm:"not null" json:"total"`

	PaymentMethod string `gorm:"size:20;not null" json:"paymentMethod"`
	PaymentStatus string `gorm:"size:20;not null;default:'pending'" json:"paymentStatus"`
	ProcessorRef  string `gorm:"size:255;index" json:"processorRef,omitempty"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	IPAddress string `gorm:"size:64" json:"-"`
	UserAgent string `gorm:"size:255" json:"-"`

	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Notes      string `gorm:"type:text" json:"notes,omitempty"`
	AdminNotes string `gorm:"type:text" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}
