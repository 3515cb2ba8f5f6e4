package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"calabash/config"
	"calabash/internal/models"
	"calabash/internal/service"
	"calabash/internal/store"
	"calabash/internal/ws"
	"calabash/pkg/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

type recordingNotifier struct {
	mu    sync.Mutex
	sends []string
}

func (n *recordingNotifier) SendOrderConfirmation(ctx context.Context, o *models.Order, info payment.MethodInfo) {
	n.mu.Lock()
	n.sends = append(n.sends, o.OrderID)
	n.mu.Unlock()
}

type failingSender struct{}

func (failingSender) Send(to, subject, html string) error {
	return errors.New("smtp relay refused connection")
}

func setupOrderTest(t *testing.T, notifier EmailNotifier) (*gin.Engine, *store.Gateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Load()
	logger := zaptest.NewLogger(t)
	gateway := store.NewGateway(nil, logger)
	methods := payment.NewRouter(payment.MerchantContact{
		Name:     cfg.Merchant.Name,
		Email:    cfg.Merchant.Email,
		Phone:    cfg.Merchant.Phone,
		WhatsApp: cfg.Merchant.WhatsApp,
	})
	if notifier == nil {
		notifier = &recordingNotifier{}
	}
	h := NewOrderHandler(cfg, gateway, methods, notifier, ws.NewOrderFeed(logger), logger)

	r := gin.New()
	r.POST("/api/process-stripe", h.Process("stripe"))
	r.POST("/api/process-bank-transfer", h.Process("bank"))
	r.POST("/api/process-wave", h.Process("wave"))
	r.GET("/api/orders", h.List)
	r.GET("/api/order/:id", h.Get)
	r.PUT("/api/order/:id/status", h.UpdateStatus)
	return r, gateway
}

func checkoutBody(total float64, extra map[string]any) []byte {
	data := map[string]any{
		"firstName": "Awa",
		"lastName":  "Diallo",
		"email":     "awa@example.com",
		"phone":     "+229 90000000",
		"address":   "12 Rue des Cocotiers",
		"city":      "Cotonou",
		"postal":    "00229",
		"country":   "Bénin",
		"items": []map[string]any{
			{"id": 1, "name": "Poulet DG", "price": 5.00, "quantity": 2},
			{"id": 2, "name": "Alloco", "price": 3.50, "quantity": 1},
		},
		"subtotal": 13.50,
		"total":    total,
	}
	for k, v := range extra {
		data[k] = v
	}
	body, _ := json.Marshal(map[string]any{"orderData": data})
	return body
}

func postJSON(r *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProcessDeferredBank(t *testing.T) {
	r, _ := setupOrderTest(t, nil)

	w := postJSON(r, "/api/process-bank-transfer", checkoutBody(16.00, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status       string          `json:"status"`
		OrderID      string          `json:"orderId"`
		DBStatus     string          `json:"dbStatus"`
		Instructions string          `json:"instructions"`
		BankDetails  json.RawMessage `json:"bankDetails"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "pending" {
		t.Errorf("deferred method must leave the order pending, got %q", resp.Status)
	}
	if !strings.HasPrefix(resp.OrderID, "ACN-") {
		t.Errorf("generated order id missing prefix: %q", resp.OrderID)
	}
	if resp.DBStatus != "memory" {
		t.Errorf("expected dbStatus memory without a database, got %q", resp.DBStatus)
	}
	if resp.Instructions == "" {
		t.Error("deferred method response must carry payment instructions")
	}
	if len(resp.BankDetails) == 0 {
		t.Error("bank transfer response must include bank details")
	}
}

func TestProcessInstantStripe(t *testing.T) {
	r, gateway := setupOrderTest(t, nil)

	w := postJSON(r, "/api/process-stripe", checkoutBody(16.00, map[string]any{
		"stripePaymentId": "pi_test_123",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status  string `json:"status"`
		OrderID string `json:"orderId"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "completed" {
		t.Errorf("instant method must complete the payment, got %q", resp.Status)
	}

	order, err := gateway.GetOrder(resp.OrderID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if order.Status != "confirmed" {
		t.Errorf("instant order should be confirmed, got %q", order.Status)
	}
	if order.ProcessorRef != "pi_test_123" {
		t.Errorf("processor reference not stored: %q", order.ProcessorRef)
	}
}

func TestProcessTotalMismatch(t *testing.T) {
	r, gateway := setupOrderTest(t, nil)

	w := postJSON(r, "/api/process-bank-transfer", checkoutBody(20.00, nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inconsistent total, got %d", w.Code)
	}
	if len(gateway.ListOrders(500)) != 0 {
		t.Error("rejected order must not be persisted")
	}
}

func TestProcessMissingCustomerFields(t *testing.T) {
	r, _ := setupOrderTest(t, nil)

	body, _ := json.Marshal(map[string]any{"orderData": map[string]any{
		"firstName": "Awa",
		"total":     16.00,
	}})
	if w := postJSON(r, "/api/process-bank-transfer", body); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete payload, got %d", w.Code)
	}
}

func TestProcessSucceedsWhenEmailFails(t *testing.T) {
	cfg := config.Load()
	logger := zaptest.NewLogger(t)
	emails := service.NewEmailService(failingSender{}, cfg, logger)

	r, _ := setupOrderTest(t, emails)
	w := postJSON(r, "/api/process-bank-transfer", checkoutBody(16.00, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("email failure must not fail the order, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetOrderNotFound(t *testing.T) {
	r, _ := setupOrderTest(t, nil)

	req := httptest.NewRequest("GET", "/api/order/ACN-missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", w.Code)
	}
}

func createPendingOrder(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := postJSON(r, "/api/process-bank-transfer", checkoutBody(16.00, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("create order: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		OrderID string `json:"orderId"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.OrderID
}

func putStatus(r *gin.Engine, orderID, status string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"status": status})
	req := httptest.NewRequest("PUT", "/api/order/"+orderID+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	r, gateway := setupOrderTest(t, nil)
	orderID := createPendingOrder(t, r)

	if w := putStatus(r, orderID, "shipped"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for status outside the enum, got %d", w.Code)
	}
	order, err := gateway.GetOrder(orderID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if order.Status != "pending" {
		t.Errorf("rejected update must not change state, got %q", order.Status)
	}
}

func TestUpdateStatusRejectsBackwardTransition(t *testing.T) {
	r, _ := setupOrderTest(t, nil)
	orderID := createPendingOrder(t, r)

	if w := putStatus(r, orderID, "confirmed"); w.Code != http.StatusOK {
		t.Fatalf("pending -> confirmed should succeed, got %d", w.Code)
	}
	if w := putStatus(r, orderID, "pending"); w.Code != http.StatusBadRequest {
		t.Fatalf("confirmed -> pending should be rejected, got %d", w.Code)
	}
}

func TestUpdateStatusCompletion(t *testing.T) {
	r, _ := setupOrderTest(t, nil)
	orderID := createPendingOrder(t, r)

	for _, status := range []string{"confirmed", "processing", "completed"} {
		if w := putStatus(r, orderID, status); w.Code != http.StatusOK {
			t.Fatalf("transition to %s failed: %d %s", status, w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest("GET", "/api/order/"+orderID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var order models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.CompletedAt == nil {
		t.Error("completed order must carry a completion timestamp")
	}

	// terminal: no further transitions
	if w := putStatus(r, orderID, "processing"); w.Code != http.StatusBadRequest {
		t.Errorf("completed is terminal, expected 400, got %d", w.Code)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	r, _ := setupOrderTest(t, nil)
	if w := putStatus(r, "ACN-missing", "confirmed"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListNewestFirst(t *testing.T) {
	r, _ := setupOrderTest(t, nil)
	first := createPendingOrder(t, r)
	second := createPendingOrder(t, r)
	_ = first

	req := httptest.NewRequest("GET", "/api/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var orders []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].OrderID != second && orders[0].CreatedAt.Before(orders[1].CreatedAt) {
		t.Error("orders not sorted newest first")
	}
}
