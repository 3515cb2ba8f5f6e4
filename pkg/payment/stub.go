package payment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubProvider is a no-op provider for tests and local development.
type StubProvider struct{}

func (s *StubProvider) CreateIntent(ctx context.Context, req IntentRequest) (*IntentResponse, error) {
	id := fmt.Sprintf("stub_%d", time.Now().UnixNano())
	return &IntentResponse{
		IntentID:     id,
		ClientSecret: id + "_secret",
		Status:       "requires_confirmation",
		DemoMode:     true,
	}, nil
}

func (s *StubProvider) VerifyIntent(ctx context.Context, intentID string) (*IntentResponse, error) {
	status := "succeeded"
	if !strings.HasPrefix(intentID, "stub_") {
		status = "canceled"
	}
	return &IntentResponse{IntentID: intentID, Status: status, DemoMode: true}, nil
}
