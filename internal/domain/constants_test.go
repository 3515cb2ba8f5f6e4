package domain

import "testing"

func TestIsValidMethod(t *testing.T) {
	for _, m := range []string{MethodStripe, MethodBank, MethodWave, MethodOrange, MethodMTN} {
		if !IsValidMethod(m) {
			t.Errorf("%s should be valid", m)
		}
	}
	for _, m := range []string{"", "paypal", "Stripe", "cash"} {
		if IsValidMethod(m) {
			t.Errorf("%q should be invalid", m)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{OrderPending, OrderConfirmed},
		{OrderPending, OrderProcessing},
		{OrderPending, OrderCompleted},
		{OrderConfirmed, OrderProcessing},
		{OrderConfirmed, OrderCompleted},
		{OrderProcessing, OrderCompleted},
		{OrderPending, OrderCancelled},
		{OrderConfirmed, OrderRefunded},
		{OrderProcessing, OrderCancelled},
	}
	for _, tr := range allowed {
		if !CanTransition(tr[0], tr[1]) {
			t.Errorf("%s -> %s should be allowed", tr[0], tr[1])
		}
	}

	denied := [][2]string{
		{OrderConfirmed, OrderPending},
		{OrderProcessing, OrderConfirmed},
		{OrderCompleted, OrderProcessing},
		{OrderCompleted, OrderCancelled},
		{OrderCancelled, OrderConfirmed},
		{OrderRefunded, OrderPending},
		{OrderPending, OrderPending},
		{OrderPending, "shipped"},
		{"shipped", OrderCompleted},
	}
	for _, tr := range denied {
		if CanTransition(tr[0], tr[1]) {
			t.Errorf("%s -> %s should be rejected", tr[0], tr[1])
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []string{OrderCompleted, OrderCancelled, OrderRefunded} {
		if !IsTerminalOrderStatus(s) {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []string{OrderPending, OrderConfirmed, OrderProcessing} {
		if IsTerminalOrderStatus(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
