package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Customer is the delivery/contact block of the checkout form.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Postal    string `json:"postal"`
	Country   string `json:"country"`
}

// CheckoutResult is the server's response to a process-<method> call.
type CheckoutResult struct {
	Status       string          `json:"status"`
	Message      string          `json:"message"`
	OrderID      string          `json:"orderId"`
	DBStatus     string          `json:"dbStatus"`
	Instructions string          `json:"instructions,omitempty"`
	BankDetails  json.RawMessage `json:"bankDetails,omitempty"`
}

var methodEndpoints = map[string]string{
	"stripe": "/api/process-stripe",
	"bank":   "/api/process-bank-transfer",
	"wave":   "/api/process-wave",
	"orange": "/api/process-orange",
	"mtn":    "/api/process-mtn",
}

// Client talks to the order endpoints.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Checkout submits the cart via the endpoint for the selected method. The cart
// is cleared only after a confirmed success response; any failure leaves it
// intact so the customer can retry.
func (c *Cart) Checkout(ctx context.Context, client *Client, method string, customer Customer, processorRef string) (*CheckoutResult, error) {
	endpoint, ok := methodEndpoints[method]
	if !ok {
		return nil, fmt.Errorf("unknown payment method %q", method)
	}

	c.mu.Lock()
	if len(c.lines) == 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("cart is empty")
	}
	lines := append([]Line(nil), c.lines...)
	summary := c.summaryLocked()
	c.mu.Unlock()

	payload := map[string]any{
		"orderData": map[string]any{
			"firstName":       customer.FirstName,
			"lastName":        customer.LastName,
			"email":           customer.Email,
			"phone":           customer.Phone,
			"address":         customer.Address,
			"city":            customer.City,
			"postal":          customer.Postal,
			"country":         customer.Country,
			"items":           lines,
			"subtotal":        summary.Subtotal,
			"total":           summary.Total,
			"stripePaymentId": processorRef,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.BaseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("checkout rejected: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("checkout failed: status %d", resp.StatusCode)
	}

	var result CheckoutResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	if err := c.Clear(); err != nil {
		return &result, fmt.Errorf("order %s accepted but cart not cleared: %w", result.OrderID, err)
	}
	return &result, nil
}
