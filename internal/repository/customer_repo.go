package repository

import (
	"errors"
	"time"

	"calabash/internal/models"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	var c models.Customer
	err := r.db.Where("email = ?", email).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// RecordOrder upserts the per-email aggregate: order count, lifetime spend,
// last order date. Contact fields are refreshed from the latest order.
func (r *CustomerRepository) RecordOrder(o *models.Order) error {
	now := time.Now()
	existing, err := r.GetByEmail(o.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&models.Customer{
			Email:         o.Email,
			FirstName:     o.FirstName,
			LastName:      o.LastName,
			Phone:         o.Phone,
			Address:       o.Address,
			City:          o.City,
			Postal:        o.Postal,
			Country:       o.Country,
			TotalOrders:   1,
			TotalSpent:    o.Total,
			LastOrderDate: &now,
		}).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(existing).Updates(map[string]interface{}{
		"first_name":      o.FirstName,
		"last_name":       o.LastName,
		"phone":           o.Phone,
		"address":         o.Address,
		"city":            o.City,
		"postal":          o.Postal,
		"country":         o.Country,
		"total_orders":    gorm.Expr("total_orders + 1"),
		"total_spent":     gorm.Expr("total_spent + ?", o.Total),
		"last_order_date": now,
		"updated_at":      now,
	}).Error
}
