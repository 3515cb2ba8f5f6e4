package payment

import (
	"context"
)

// IntentRequest asks the card processor to open a payment intent.
type IntentRequest struct {
	Amount       float64 // EUR
	Currency     string
	Email        string
	CustomerName string
	OrderID      string
}

// IntentResponse is the processor's view of the intent.
type IntentResponse struct {
	IntentID     string
	ClientSecret string
	Status       string
	DemoMode     bool
}

// Provider is a card payment processor. Implementations must honor ctx
// cancellation and bound their own call timeouts.
type Provider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*IntentResponse, error)
	VerifyIntent(ctx context.Context, intentID string) (*IntentResponse, error)
}
