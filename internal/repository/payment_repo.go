package repository

import (
	"time"

	"calabash/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByPaymentID(id string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("payment_id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByOrderID(orderID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("order_id = ?", orderID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkCompletedByIntent flips every payment on the intent to completed.
func (r *PaymentRepository) MarkCompletedByIntent(intentID string) error {
	now := time.Now()
	return r.db.Model(&models.Payment{}).
		Where("processor_intent_id = ?", intentID).
		Updates(map[string]interface{}{
			"status":           "completed",
			"processor_status": "succeeded",
			"completed_at":     now,
			"updated_at":       now,
		}).Error
}

func (r *PaymentRepository) MarkFailedByIntent(intentID, processorStatus, errMsg string) error {
	return r.db.Model(&models.Payment{}).
		Where("processor_intent_id = ?", intentID).
		Updates(map[string]interface{}{
			"status":           "failed",
			"processor_status": processorStatus,
			"error_message":    errMsg,
			"updated_at":       time.Now(),
		}).Error
}

func (r *PaymentRepository) MarkRefundedByCharge(chargeID string) error {
	return r.db.Model(&models.Payment{}).
		Where("processor_charge_id = ? OR processor_intent_id = ?", chargeID, chargeID).
		Updates(map[string]interface{}{
			"status":     "refunded",
			"updated_at": time.Now(),
		}).Error
}

func (r *PaymentRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Payment{}).Count(&n).Error
	return n, err
}
