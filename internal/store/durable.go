package store

import (
	"time"

	"calabash/internal/models"
	"calabash/internal/repository"

	"gorm.io/gorm"
)

// Durable is the database-backed side of the gateway. A nil Durable means the
// database never connected and everything runs off the memory store.
type Durable interface {
	SaveOrder(o *models.Order) error
	GetOrder(orderID string) (*models.Order, error)
	ListOrders(limit int) ([]models.Order, error)
	UpdateOrderStatus(orderID, status string, completedAt *time.Time) (*models.Order, error)

	SavePayment(p *models.Payment) error

	// SaveEvent returns gorm.ErrDuplicatedKey when the processor event id was
	// already recorded.
	SaveEvent(e *models.ProcessorEvent) error
	MarkEventProcessed(eventID, errMsg string) error

	ApplyIntentSucceeded(intentID string) error
	ApplyIntentFailed(intentID, processorStatus, errMsg string) error
	ApplyChargeRefunded(chargeID string) error

	RecordCustomerOrder(o *models.Order) error

	Counts() (orders, payments int64, err error)
}

type repoDurable struct {
	orders    *repository.OrderRepository
	payments  *repository.PaymentRepository
	events    *repository.EventRepository
	customers *repository.CustomerRepository
}

// NewDurable wires the gorm repositories behind the Durable interface.
func NewDurable(db *gorm.DB) Durable {
	return &repoDurable{
		orders:    repository.NewOrderRepository(db),
		payments:  repository.NewPaymentRepository(db),
		events:    repository.NewEventRepository(db),
		customers: repository.NewCustomerRepository(db),
	}
}

func (d *repoDurable) SaveOrder(o *models.Order) error { return d.orders.Create(o) }

func (d *repoDurable) GetOrder(orderID string) (*models.Order, error) {
	return d.orders.GetByOrderID(orderID)
}

func (d *repoDurable) ListOrders(limit int) ([]models.Order, error) {
	return d.orders.ListRecent(limit)
}

func (d *repoDurable) UpdateOrderStatus(orderID, status string, completedAt *time.Time) (*models.Order, error) {
	return d.orders.UpdateStatus(orderID, status, completedAt)
}

func (d *repoDurable) SavePayment(p *models.Payment) error { return d.payments.Create(p) }

func (d *repoDurable) SaveEvent(e *models.ProcessorEvent) error { return d.events.Create(e) }

func (d *repoDurable) MarkEventProcessed(eventID, errMsg string) error {
	return d.events.MarkProcessed(eventID, errMsg)
}

func (d *repoDurable) ApplyIntentSucceeded(intentID string) error {
	if err := d.payments.MarkCompletedByIntent(intentID); err != nil {
		return err
	}
	return d.orders.UpdateByProcessorRef(intentID, map[string]interface{}{
		"payment_status": "completed",
		"status":         "confirmed",
	})
}

func (d *repoDurable) ApplyIntentFailed(intentID, processorStatus, errMsg string) error {
	if err := d.payments.MarkFailedByIntent(intentID, processorStatus, errMsg); err != nil {
		return err
	}
	return d.orders.UpdateByProcessorRef(intentID, map[string]interface{}{
		"payment_status": "failed",
	})
}

func (d *repoDurable) ApplyChargeRefunded(chargeID string) error {
	if err := d.payments.MarkRefundedByCharge(chargeID); err != nil {
		return err
	}
	return d.orders.UpdateByProcessorRef(chargeID, map[string]interface{}{
		"payment_status": "refunded",
		"status":         "refunded",
	})
}

func (d *repoDurable) RecordCustomerOrder(o *models.Order) error {
	return d.customers.RecordOrder(o)
}

func (d *repoDurable) Counts() (int64, int64, error) {
	orders, err := d.orders.Count()
	if err != nil {
		return 0, 0, err
	}
	payments, err := d.payments.Count()
	if err != nil {
		return 0, 0, err
	}
	return orders, payments, nil
}
