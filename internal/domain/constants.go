package domain

// Payment methods accepted at checkout. Closed set: anything else is rejected.
const (
	MethodStripe = "stripe"
	MethodBank   = "bank"
	MethodWave   = "wave"
	MethodOrange = "orange"
	MethodMTN    = "mtn"
)

var paymentMethods = map[string]bool{
	MethodStripe: true,
	MethodBank:   true,
	MethodWave:   true,
	MethodOrange: true,
	MethodMTN:    true,
}

func IsValidMethod(m string) bool {
	return paymentMethods[m]
}

const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
)

const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
	OrderRefunded   = "refunded"
)

var orderStatuses = map[string]bool{
	OrderPending:    true,
	OrderConfirmed:  true,
	OrderProcessing: true,
	OrderCompleted:  true,
	OrderCancelled:  true,
	OrderRefunded:   true,
}

func IsValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

// IsTerminalOrderStatus reports whether no further transition is allowed.
func IsTerminalOrderStatus(s string) bool {
	return s == OrderCompleted || s == OrderCancelled || s == OrderRefunded
}

// forward holds the pending -> confirmed -> processing -> completed chain.
var forward = map[string]string{
	OrderPending:    OrderConfirmed,
	OrderConfirmed:  OrderProcessing,
	OrderProcessing: OrderCompleted,
}

// CanTransition reports whether an order may move from one status to another.
// Cancelled and refunded are reachable from any non-terminal state.
func CanTransition(from, to string) bool {
	if !orderStatuses[from] || !orderStatuses[to] || from == to {
		return false
	}
	if IsTerminalOrderStatus(from) {
		return false
	}
	if to == OrderCancelled || to == OrderRefunded {
		return true
	}
	// walk the forward chain so pending -> processing etc. is allowed
	for cur := from; cur != ""; cur = forward[cur] {
		if forward[cur] == to {
			return true
		}
		if cur == OrderCompleted {
			break
		}
	}
	return false
}

// Processor webhook event types with side effects.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventChargeRefunded   = "charge.refunded"
)
