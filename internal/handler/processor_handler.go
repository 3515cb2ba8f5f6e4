package handler

import (
	"net/http"

	"calabash/config"
	"calabash/pkg/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProcessorHandler fronts the card processor: the storefront fetches the
// public key, opens an intent, and confirms it through these endpoints before
// calling the instant-method order endpoint.
type ProcessorHandler struct {
	cfg      *config.ProcessorConfig
	provider payment.Provider
	logger   *zap.Logger
}

func NewProcessorHandler(cfg *config.ProcessorConfig, provider payment.Provider, logger *zap.Logger) *ProcessorHandler {
	return &ProcessorHandler{cfg: cfg, provider: provider, logger: logger}
}

func (h *ProcessorHandler) PublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publishableKey": h.cfg.PublicKey})
}

func (h *ProcessorHandler) CreateIntent(c *gin.Context) {
	var req struct {
		Amount       float64 `json:"amount" binding:"required,gt=0"`
		Email        string  `json:"email"`
		CustomerName string  `json:"customerName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.provider.CreateIntent(c.Request.Context(), payment.IntentRequest{
		Amount:       req.Amount,
		Currency:     "eur",
		Email:        req.Email,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		h.logger.Error("intent creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := gin.H{
		"clientSecret": resp.ClientSecret,
		"status":       resp.Status,
	}
	if resp.DemoMode {
		out["message"] = "Payment processing in demo mode"
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProcessorHandler) ConfirmIntent(c *gin.Context) {
	var req struct {
		PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.provider.VerifyIntent(c.Request.Context(), req.PaymentIntentID)
	if err != nil {
		h.logger.Error("intent verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if resp.Status != "succeeded" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "failed",
			"error":  "Payment not completed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"orderId": resp.IntentID,
	})
}
