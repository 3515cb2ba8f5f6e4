package repository

import (
	"time"

	"calabash/internal/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts the event row. A duplicate processor event id surfaces as
// gorm.ErrDuplicatedKey; that uniqueness constraint is the idempotency guard.
func (r *EventRepository) Create(e *models.ProcessorEvent) error {
	return r.db.Create(e).Error
}

func (r *EventRepository) GetByEventID(eventID string) (*models.ProcessorEvent, error) {
	var e models.ProcessorEvent
	err := r.db.Where("event_id = ?", eventID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) MarkProcessed(eventID string, errMsg string) error {
	now := time.Now()
	return r.db.Model(&models.ProcessorEvent{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"processed":     true,
			"processed_at":  now,
			"error_message": errMsg,
		}).Error
}
