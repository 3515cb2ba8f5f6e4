package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"calabash/config"
	"calabash/internal/domain"
	"calabash/internal/models"
	"calabash/internal/store"
	"calabash/internal/ws"
	"calabash/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// totalTolerance absorbs float rounding when checking total == subtotal + fee.
const totalTolerance = 0.005

type EmailNotifier interface {
	SendOrderConfirmation(ctx context.Context, o *models.Order, info payment.MethodInfo)
}

type OrderHandler struct {
	cfg     *config.Config
	gateway *store.Gateway
	methods *payment.Router
	emails  EmailNotifier
	feed    *ws.OrderFeed
	logger  *zap.Logger
}

func NewOrderHandler(cfg *config.Config, gateway *store.Gateway, methods *payment.Router, emails EmailNotifier, feed *ws.OrderFeed, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		cfg:     cfg,
		gateway: gateway,
		methods: methods,
		emails:  emails,
		feed:    feed,
		logger:  logger,
	}
}

// orderPayload is the checkout submission from the client controller.
type orderPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	Postal    string `json:"postal" binding:"required"`
	Country   string `json:"country" binding:"required"`

	Items []models.OrderItem `json:"items" binding:"required,min=1"`

	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total" binding:"required"`

	StripePaymentID string `json:"stripePaymentId"`
	Notes           string `json:"notes"`
}

// Process returns the POST /api/process-<method> handler for one payment
// method. Instant methods persist the order confirmed/completed; deferred
// methods leave it pending and return payment instructions. The method tag is
// resolved through the closed-set router, so an unknown tag is rejected
// instead of defaulting to a payment path.
func (h *OrderHandler) Process(method string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.process(c, method)
	}
}

func (h *OrderHandler) process(c *gin.Context, method string) {
	info, err := h.methods.Resolve(method)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		OrderData orderPayload `json:"orderData" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data := req.OrderData

	subtotal := data.Subtotal
	if subtotal == 0 {
		for _, it := range data.Items {
			subtotal += it.Price * float64(it.Quantity)
		}
	}
	fee := h.cfg.Checkout.ShippingFee
	if math.Abs(data.Total-(subtotal+fee)) > totalTolerance {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("total mismatch: expected %.2f (subtotal %.2f + shipping %.2f), got %.2f",
				subtotal+fee, subtotal, fee, data.Total),
		})
		return
	}

	orderID := data.ID
	if orderID == "" {
		orderID = "ACN-" + uuid.New().String()
	}

	now := time.Now()
	order := &models.Order{
		OrderID:       orderID,
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		Email:         strings.ToLower(data.Email),
		Phone:         data.Phone,
		Address:       data.Address,
		City:          data.City,
		Postal:        data.Postal,
		Country:       data.Country,
		Items:         data.Items,
		Subtotal:      subtotal,
		ShippingFee:   fee,
		Total:         data.Total,
		PaymentMethod: method,
		PaymentStatus: domain.PaymentPending,
		Status:        domain.OrderPending,
		IPAddress:     c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
		Notes:         data.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	pay := &models.Payment{
		PaymentID:     method + "_" + orderID,
		OrderID:       orderID,
		Amount:        data.Total,
		Currency:      h.cfg.Checkout.Currency,
		Method:        method,
		Status:        domain.PaymentPending,
		CustomerEmail: order.Email,
		CustomerPhone: order.Phone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if info.Instant {
		// the card widget already confirmed the charge before this call
		intentID := data.StripePaymentID
		if intentID == "" {
			intentID = fmt.Sprintf("demo_%d", now.UnixMilli())
		}
		order.ProcessorRef = intentID
		order.PaymentStatus = domain.PaymentCompleted
		order.Status = domain.OrderConfirmed
		pay.ProcessorIntentID = intentID
		pay.Status = domain.PaymentCompleted
		pay.ProcessorStatus = "succeeded"
		pay.CompletedAt = &now
	}

	mode, err := h.gateway.CreateOrder(order, pay)
	if err != nil {
		h.logger.Error("order persist failed", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order could not be saved"})
		return
	}
	h.logger.Info("order created",
		zap.String("order_id", orderID),
		zap.String("method", method),
		zap.String("db_status", string(mode)))

	// best-effort: an email failure must never fail the order
	go h.emails.SendOrderConfirmation(context.Background(), order, info)
	h.feed.Broadcast("order.created", order)

	resp := gin.H{
		"status":   order.PaymentStatus,
		"message":  info.Message,
		"orderId":  orderID,
		"dbStatus": string(mode),
	}
	if !info.Instant {
		resp["status"] = domain.OrderPending
		resp["instructions"] = info.Instructions
		if method == domain.MethodBank {
			resp["bankDetails"] = h.methods.BankDetails()
		}
	}
	c.JSON(http.StatusOK, resp)
}

// List returns up to 500 orders, newest first, for the admin dashboard.
func (h *OrderHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.gateway.ListOrders(500))
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.gateway.GetOrder(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus moves an order along the lifecycle. The enum is closed and the
// transition rules apply; completed stamps the completion timestamp, any other
// status clears it.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
		return
	}
	if !domain.IsValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	orderID := c.Param("id")
	current, err := h.gateway.GetOrder(orderID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !domain.CanTransition(current.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("cannot move order from %s to %s", current.Status, req.Status),
		})
		return
	}

	updated, err := h.gateway.UpdateStatus(orderID, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.feed.Broadcast("order.updated", updated)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated",
		"order":   updated,
	})
}
