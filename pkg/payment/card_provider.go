package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CardProvider talks to a Stripe-compatible payment-intents API. When the
// secret key is a demo placeholder it short-circuits and simulates success so
// the storefront can run without processor credentials.
type CardProvider struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewCardProvider(baseURL, secretKey string, timeout time.Duration) *CardProvider {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &CardProvider{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}
}

// DemoMode reports whether the provider runs without real credentials.
func (p *CardProvider) DemoMode() bool {
	return p.SecretKey == "" || strings.Contains(p.SecretKey, "demo")
}

type intentAPIResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *CardProvider) CreateIntent(ctx context.Context, req IntentRequest) (*IntentResponse, error) {
	if p.DemoMode() {
		return &IntentResponse{
			IntentID:     fmt.Sprintf("demo_%d", time.Now().UnixNano()),
			ClientSecret: fmt.Sprintf("demo_secret_%d", time.Now().UnixMilli()),
			Status:       "demo_mode",
			DemoMode:     true,
		}, nil
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(int64(math.Round(req.Amount*100)), 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("metadata[email]", req.Email)
	form.Set("metadata[customerName]", req.CustomerName)
	if req.OrderID != "" {
		form.Set("metadata[orderId]", req.OrderID)
	}

	out, err := p.call(ctx, http.MethodPost, "/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	return &IntentResponse{IntentID: out.ID, ClientSecret: out.ClientSecret, Status: out.Status}, nil
}

func (p *CardProvider) VerifyIntent(ctx context.Context, intentID string) (*IntentResponse, error) {
	if p.DemoMode() {
		return &IntentResponse{IntentID: intentID, Status: "succeeded", DemoMode: true}, nil
	}
	out, err := p.call(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(intentID), nil)
	if err != nil {
		return nil, err
	}
	return &IntentResponse{IntentID: out.ID, ClientSecret: out.ClientSecret, Status: out.Status}, nil
}

func (p *CardProvider) call(ctx context.Context, method, path string, body io.Reader) (*intentAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	var out intentAPIResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("processor: bad response (%d): %s", resp.StatusCode, string(respBody))
	}
	if resp.StatusCode >= 400 {
		msg := string(respBody)
		if out.Error != nil {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("processor: %d %s", resp.StatusCode, msg)
	}
	return &out, nil
}
