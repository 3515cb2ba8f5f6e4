package store

import (
	"sort"
	"sync"
	"time"

	"calabash/internal/models"
)

// MemoryStore is the in-process fallback used when the database is
// unreachable. It holds orders keyed by public order id, payments keyed by
// payment id, and the set of processor event ids already seen, so webhook
// idempotency holds even in memory-only mode.
type MemoryStore struct {
	mu       sync.RWMutex
	orders   map[string]*models.Order
	payments map[string]*models.Payment
	events   map[string]*models.ProcessorEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:   make(map[string]*models.Order),
		payments: make(map[string]*models.Payment),
		events:   make(map[string]*models.ProcessorEvent),
	}
}

func (m *MemoryStore) PutOrder(o *models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.OrderID] = &cp
}

func (m *MemoryStore) GetOrder(orderID string) (*models.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, false
	}
	cp := *o
	return &cp, true
}

func (m *MemoryStore) DeleteOrder(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, orderID)
}

// ListOrders returns newest first, capped at limit.
func (m *MemoryStore) ListOrders(limit int) []models.Order {
	m.mu.RLock()
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// UpdateOrderStatus patches the in-memory copy if present.
func (m *MemoryStore) UpdateOrderStatus(orderID, status string, completedAt *time.Time) (*models.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, false
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	o.CompletedAt = completedAt
	cp := *o
	return &cp, true
}

func (m *MemoryStore) PutPayment(p *models.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.payments[p.PaymentID] = &cp
}

func (m *MemoryStore) DeletePayment(paymentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payments, paymentID)
}

// PutEvent records the event id; it reports false when the id was already seen.
func (m *MemoryStore) PutEvent(e *models.ProcessorEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, seen := m.events[e.EventID]; seen {
		return false
	}
	cp := *e
	m.events[e.EventID] = &cp
	return true
}

func (m *MemoryStore) MarkEventProcessed(eventID, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[eventID]; ok {
		now := time.Now()
		e.Processed = true
		e.ProcessedAt = &now
		e.ErrorMessage = errMsg
	}
}

// ApplyIntent updates payments carrying the intent id and their orders.
func (m *MemoryStore) ApplyIntent(intentID string, apply func(*models.Payment, *models.Order)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ProcessorIntentID == intentID || p.ProcessorChargeID == intentID {
			apply(p, m.orders[p.OrderID])
		}
	}
}

func (m *MemoryStore) OrderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

func (m *MemoryStore) PaymentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}
