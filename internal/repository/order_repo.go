package repository

import (
	"time"

	"calabash/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByOrderID(orderID string) (*models.Order, error) {
	var o models.Order
	err := r.db.Where("order_id = ?", orderID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListRecent returns the newest orders first, capped at limit.
func (r *OrderRepository) ListRecent(limit int) ([]models.Order, error) {
	var out []models.Order
	err := r.db.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// UpdateStatus sets the lifecycle status. completedAt is non-nil only for the
// completed status; any other status clears the completion timestamp.
func (r *OrderRepository) UpdateStatus(orderID, status string, completedAt *time.Time) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).Where("order_id = ?", orderID).Updates(map[string]interface{}{
		"status":       status,
		"updated_at":   time.Now(),
		"completed_at": completedAt,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByOrderID(orderID)
}

// UpdateByProcessorRef patches payment/order status for rows tied to a
// processor payment intent.
func (r *OrderRepository) UpdateByProcessorRef(ref string, patch map[string]interface{}) error {
	patch["updated_at"] = time.Now()
	return r.db.Model(&models.Order{}).Where("processor_ref = ?", ref).Updates(patch).Error
}

func (r *OrderRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).Count(&n).Error
	return n, err
}
