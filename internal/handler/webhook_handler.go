package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"calabash/config"
	"calabash/internal/domain"
	"calabash/internal/models"
	"calabash/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler ingests processor notifications. Each event is logged under
// the processor's event id before any side effect; the unique id is the only
// concurrency guard, so a duplicate delivery is acknowledged and skipped.
type WebhookHandler struct {
	cfg     *config.ProcessorConfig
	gateway *store.Gateway
	logger  *zap.Logger
}

func NewWebhookHandler(cfg *config.ProcessorConfig, gateway *store.Gateway, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, gateway: gateway, logger: logger}
}

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID               string `json:"id"`
			Customer         string `json:"customer"`
			Status           string `json:"status"`
			LastPaymentError *struct {
				Message string `json:"message"`
			} `json:"last_payment_error"`
			PaymentIntent string `json:"payment_intent"`
		} `json:"object"`
	} `json:"data"`
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	// no signing secret means demo mode: acknowledge without processing
	if h.cfg.WebhookSecret == "" {
		h.logger.Info("webhook received without signing secret configured, skipping")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	sig := c.GetHeader("Stripe-Signature")
	if !h.verifySignature(body, sig) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil || event.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}

	record := &models.ProcessorEvent{
		EventID:         event.ID,
		EventType:       event.Type,
		PaymentIntentID: event.Data.Object.ID,
		CustomerID:      event.Data.Object.Customer,
		Payload:         string(body),
		ReceivedAt:      time.Now(),
	}
	duplicate, err := h.gateway.RecordEvent(record)
	if err != nil {
		h.logger.Warn("event log write failed", zap.String("event_id", event.ID), zap.Error(err))
	}
	if duplicate {
		h.logger.Info("duplicate processor event, side effects skipped", zap.String("event_id", event.ID))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var applyErr error
	switch event.Type {
	case domain.EventPaymentSucceeded:
		applyErr = h.gateway.ApplyIntentSucceeded(event.Data.Object.ID)
	case domain.EventPaymentFailed:
		errMsg := ""
		if event.Data.Object.LastPaymentError != nil {
			errMsg = event.Data.Object.LastPaymentError.Message
		}
		applyErr = h.gateway.ApplyIntentFailed(event.Data.Object.ID, event.Data.Object.Status, errMsg)
	case domain.EventChargeRefunded:
		ref := event.Data.Object.ID
		if event.Data.Object.PaymentIntent != "" {
			ref = event.Data.Object.PaymentIntent
		}
		applyErr = h.gateway.ApplyChargeRefunded(ref)
	default:
		h.logger.Info("unhandled processor event type", zap.String("type", event.Type))
	}

	errMsg := ""
	if applyErr != nil {
		errMsg = applyErr.Error()
		h.logger.Warn("event side effect failed",
			zap.String("event_id", event.ID), zap.String("type", event.Type), zap.Error(applyErr))
	}
	h.gateway.MarkEventProcessed(event.ID, errMsg)

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.cfg.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
