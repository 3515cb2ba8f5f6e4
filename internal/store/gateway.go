package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"calabash/internal/domain"
	"calabash/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mode reports where a write landed, so callers can tell the client whether
// durability was achieved.
type Mode string

const (
	ModeSaved  Mode = "saved"
	ModeMemory Mode = "memory"
)

var ErrNotFound = errors.New("order not found")

type writeKind int

const (
	writeOrder writeKind = iota
	writePayment
)

// pendingWrite is a write that failed against durable storage, queued for the
// reconciler to replay once the database answers again.
type pendingWrite struct {
	kind     writeKind
	orderID  string
	order    *models.Order
	payment  *models.Payment
	reason   string
	attempts int
	queuedAt time.Time
}

// Gateway fronts the durable store with an in-process fallback. Writes try the
// database first and degrade to memory; failed durable writes are queued and
// replayed by Run.
type Gateway struct {
	durable Durable
	mem     *MemoryStore
	logger  *zap.Logger

	mu      sync.Mutex
	pending []pendingWrite

	replayInterval time.Duration
}

func NewGateway(durable Durable, logger *zap.Logger) *Gateway {
	return &Gateway{
		durable:        durable,
		mem:            NewMemoryStore(),
		logger:         logger,
		replayInterval: 30 * time.Second,
	}
}

// Connected reports whether a database was ever reachable.
func (g *Gateway) Connected() bool {
	return g.durable != nil
}

// CreateOrder persists the order and its payment record. The payment write is
// best-effort: the order is the customer-facing contract, a lost payment row
// is logged and queued but never fails the request.
func (g *Gateway) CreateOrder(o *models.Order, p *models.Payment) (Mode, error) {
	mode := ModeSaved
	if g.durable == nil {
		mode = ModeMemory
		g.mem.PutOrder(o)
	} else if err := g.durable.SaveOrder(o); err != nil {
		g.logger.Warn("durable order save failed, falling back to memory",
			zap.String("order_id", o.OrderID), zap.Error(err))
		mode = ModeMemory
		g.mem.PutOrder(o)
		g.enqueue(pendingWrite{kind: writeOrder, orderID: o.OrderID, order: o, reason: err.Error()})
	}

	if g.durable == nil || mode == ModeMemory {
		g.mem.PutPayment(p)
		if g.durable != nil {
			g.enqueue(pendingWrite{kind: writePayment, orderID: o.OrderID, payment: p, reason: "order fell back to memory"})
		}
		return mode, nil
	}
	if err := g.durable.SavePayment(p); err != nil {
		g.logger.Warn("payment record save failed",
			zap.String("payment_id", p.PaymentID), zap.Error(err))
		g.mem.PutPayment(p)
		g.enqueue(pendingWrite{kind: writePayment, orderID: o.OrderID, payment: p, reason: err.Error()})
	}
	if err := g.durable.RecordCustomerOrder(o); err != nil {
		g.logger.Warn("customer aggregate update failed",
			zap.String("email", o.Email), zap.Error(err))
	}
	return mode, nil
}

// GetOrder prefers the durable store and falls back to memory on a miss or a
// database error. A miss in both stores is ErrNotFound.
func (g *Gateway) GetOrder(orderID string) (*models.Order, error) {
	if g.durable != nil {
		o, err := g.durable.GetOrder(orderID)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			g.logger.Warn("durable order lookup failed", zap.String("order_id", orderID), zap.Error(err))
		}
	}
	if o, ok := g.mem.GetOrder(orderID); ok {
		return o, nil
	}
	return nil, ErrNotFound
}

// ListOrders returns the newest orders first, capped at limit, preferring the
// durable store.
func (g *Gateway) ListOrders(limit int) []models.Order {
	if g.durable != nil {
		out, err := g.durable.ListOrders(limit)
		if err == nil {
			return out
		}
		g.logger.Warn("durable order list failed, serving memory", zap.Error(err))
	}
	return g.mem.ListOrders(limit)
}

// UpdateStatus moves an order to a new lifecycle status in both stores so the
// copies never diverge. The completed status stamps CompletedAt; any other
// status clears it.
func (g *Gateway) UpdateStatus(orderID, status string) (*models.Order, error) {
	var completedAt *time.Time
	if status == domain.OrderCompleted {
		now := time.Now()
		completedAt = &now
	}

	var updated *models.Order
	if g.durable != nil {
		o, err := g.durable.UpdateOrderStatus(orderID, status, completedAt)
		if err == nil {
			updated = o
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			g.logger.Warn("durable status update failed", zap.String("order_id", orderID), zap.Error(err))
		}
	}
	if o, ok := g.mem.UpdateOrderStatus(orderID, status, completedAt); ok && updated == nil {
		updated = o
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// RecordEvent appends the processor event. It reports duplicate=true when the
// event id was seen before; the caller must then skip all side effects.
func (g *Gateway) RecordEvent(e *models.ProcessorEvent) (duplicate bool, err error) {
	if g.durable != nil {
		err := g.durable.SaveEvent(e)
		if err == nil {
			g.mem.PutEvent(e)
			return false, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		g.logger.Warn("durable event save failed, falling back to memory",
			zap.String("event_id", e.EventID), zap.Error(err))
	}
	if !g.mem.PutEvent(e) {
		return true, nil
	}
	return false, nil
}

func (g *Gateway) MarkEventProcessed(eventID, errMsg string) {
	if g.durable != nil {
		if err := g.durable.MarkEventProcessed(eventID, errMsg); err != nil {
			g.logger.Warn("event processed flag update failed", zap.String("event_id", eventID), zap.Error(err))
		}
	}
	g.mem.MarkEventProcessed(eventID, errMsg)
}

// ApplyIntentSucceeded marks payments on the intent completed and their orders
// confirmed, in both stores.
func (g *Gateway) ApplyIntentSucceeded(intentID string) error {
	var derr error
	if g.durable != nil {
		derr = g.durable.ApplyIntentSucceeded(intentID)
	}
	now := time.Now()
	g.mem.ApplyIntent(intentID, func(p *models.Payment, o *models.Order) {
		p.Status = domain.PaymentCompleted
		p.ProcessorStatus = "succeeded"
		p.CompletedAt = &now
		if o != nil {
			o.PaymentStatus = domain.PaymentCompleted
			o.Status = domain.OrderConfirmed
			o.UpdatedAt = now
		}
	})
	return derr
}

func (g *Gateway) ApplyIntentFailed(intentID, processorStatus, errMsg string) error {
	var derr error
	if g.durable != nil {
		derr = g.durable.ApplyIntentFailed(intentID, processorStatus, errMsg)
	}
	g.mem.ApplyIntent(intentID, func(p *models.Payment, o *models.Order) {
		p.Status = domain.PaymentFailed
		p.ProcessorStatus = processorStatus
		p.ErrorMessage = errMsg
		if o != nil {
			o.PaymentStatus = domain.PaymentFailed
		}
	})
	return derr
}

func (g *Gateway) ApplyChargeRefunded(chargeID string) error {
	var derr error
	if g.durable != nil {
		derr = g.durable.ApplyChargeRefunded(chargeID)
	}
	g.mem.ApplyIntent(chargeID, func(p *models.Payment, o *models.Order) {
		p.Status = domain.PaymentRefunded
		if o != nil {
			o.PaymentStatus = domain.PaymentRefunded
			o.Status = domain.OrderRefunded
		}
	})
	return derr
}

// Snapshot is the health-endpoint view of both stores.
type Snapshot struct {
	Connected     bool  `json:"connected"`
	Orders        int64 `json:"orders"`
	Payments      int64 `json:"payments"`
	MemoryOrders  int   `json:"memoryOrders"`
	PendingWrites int   `json:"pendingWrites"`
}

func (g *Gateway) Health() Snapshot {
	s := Snapshot{
		Connected:    g.durable != nil,
		MemoryOrders: g.mem.OrderCount(),
	}
	g.mu.Lock()
	s.PendingWrites = len(g.pending)
	g.mu.Unlock()
	if g.durable != nil {
		if orders, payments, err := g.durable.Counts(); err == nil {
			s.Orders = orders
			s.Payments = payments
		} else {
			s.Connected = false
		}
	} else {
		s.Orders = int64(g.mem.OrderCount())
		s.Payments = int64(g.mem.PaymentCount())
	}
	return s
}

func (g *Gateway) enqueue(w pendingWrite) {
	w.queuedAt = time.Now()
	g.mu.Lock()
	g.pending = append(g.pending, w)
	g.mu.Unlock()
}

// Run replays queued writes against the durable store until ctx is done. It is
// a no-op when no database was ever configured.
func (g *Gateway) Run(ctx context.Context) {
	if g.durable == nil {
		return
	}
	ticker := time.NewTicker(g.replayInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.replay()
		}
	}
}

// replay attempts every queued write once, keeping the failures queued.
func (g *Gateway) replay() {
	g.mu.Lock()
	queue := g.pending
	g.pending = nil
	g.mu.Unlock()
	if len(queue) == 0 {
		return
	}

	var remaining []pendingWrite
	for _, w := range queue {
		var err error
		switch w.kind {
		case writeOrder:
			// the memory copy may have absorbed status updates since queuing
			if mo, ok := g.mem.GetOrder(w.orderID); ok {
				w.order = mo
			}
			err = g.durable.SaveOrder(w.order)
			if err == nil {
				g.mem.DeleteOrder(w.orderID)
			}
		case writePayment:
			err = g.durable.SavePayment(w.payment)
			if err == nil {
				g.mem.DeletePayment(w.payment.PaymentID)
			}
		}
		if err != nil {
			w.attempts++
			w.reason = err.Error()
			remaining = append(remaining, w)
			continue
		}
		g.logger.Info("replayed queued write into durable store",
			zap.String("order_id", w.orderID), zap.Int("attempts", w.attempts+1))
	}

	if len(remaining) > 0 {
		g.mu.Lock()
		g.pending = append(remaining, g.pending...)
		g.mu.Unlock()
		g.logger.Warn("replay pass left writes queued", zap.Int("remaining", len(remaining)))
	}
}

// ReplayNow forces one replay pass; used by tests and the health handler.
func (g *Gateway) ReplayNow() {
	if g.durable != nil {
		g.replay()
	}
}
