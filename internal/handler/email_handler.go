package handler

import (
	"context"
	"net/http"

	"calabash/internal/domain"
	"calabash/internal/models"
	"calabash/pkg/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmailHandler re-sends the order confirmation on request. The send is
// best-effort: only a malformed request body fails the call.
type EmailHandler struct {
	methods     *payment.Router
	emails      EmailNotifier
	shippingFee float64
	logger      *zap.Logger
}

func NewEmailHandler(methods *payment.Router, emails EmailNotifier, shippingFee float64, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{methods: methods, emails: emails, shippingFee: shippingFee, logger: logger}
}

func (h *EmailHandler) SendOrderEmail(c *gin.Context) {
	var req struct {
		OrderData struct {
			orderPayload
			PaymentMethod string `json:"paymentMethod"`
		} `json:"orderData" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	data := req.OrderData

	method := data.PaymentMethod
	if method == "" {
		method = domain.MethodBank
	}
	info, err := h.methods.Resolve(method)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	order := &models.Order{
		OrderID:       data.ID,
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		Email:         data.Email,
		Phone:         data.Phone,
		Address:       data.Address,
		City:          data.City,
		Postal:        data.Postal,
		Country:       data.Country,
		Items:         data.Items,
		Subtotal:      data.Subtotal,
		ShippingFee:   h.shippingFee,
		Total:         data.Total,
		PaymentMethod: method,
	}
	go h.emails.SendOrderConfirmation(context.Background(), order, info)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email de confirmation envoyé",
	})
}
