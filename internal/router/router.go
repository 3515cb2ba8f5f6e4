package router

import (
	"time"

	"calabash/config"
	"calabash/internal/handler"
	"calabash/internal/middleware"
	"calabash/internal/service"
	"calabash/internal/store"
	"calabash/internal/ws"
	"calabash/pkg/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Setup(cfg *config.Config, gateway *store.Gateway, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	methods := payment.NewRouter(payment.MerchantContact{
		Name:     cfg.Merchant.Name,
		Email:    cfg.Merchant.Email,
		Phone:    cfg.Merchant.Phone,
		WhatsApp: cfg.Merchant.WhatsApp,
	})
	provider := payment.NewCardProvider(cfg.Processor.BaseURL, cfg.Processor.SecretKey, cfg.Processor.Timeout)

	var sender service.Sender = service.NoopSender{}
	if cfg.SMTP.Username != "" {
		sender = service.NewSMTPSender(&cfg.SMTP)
	} else {
		logger.Info("no SMTP credentials configured, confirmation emails disabled")
	}
	emailSvc := service.NewEmailService(sender, cfg, logger)

	feed := ws.NewOrderFeed(logger)

	orderHandler := handler.NewOrderHandler(cfg, gateway, methods, emailSvc, feed, logger)
	webhookHandler := handler.NewWebhookHandler(&cfg.Processor, gateway, logger)
	adminHandler := handler.NewAdminHandler(&cfg.Admin, logger)
	healthHandler := handler.NewHealthHandler(gateway)
	emailHandler := handler.NewEmailHandler(methods, emailSvc, cfg.Checkout.ShippingFee, logger)
	processorHandler := handler.NewProcessorHandler(&cfg.Processor, provider, logger)

	adminMw := middleware.AdminRequired(&cfg.Admin)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)
		api.GET("/stripe-key", processorHandler.PublicKey)
		api.POST("/create-payment-intent", processorHandler.CreateIntent)
		api.POST("/confirm-payment", processorHandler.ConfirmIntent)

		api.POST("/process-stripe", orderHandler.Process("stripe"))
		api.POST("/process-bank-transfer", orderHandler.Process("bank"))
		api.POST("/process-wave", orderHandler.Process("wave"))
		api.POST("/process-orange", orderHandler.Process("orange"))
		api.POST("/process-mtn", orderHandler.Process("mtn"))

		api.POST("/send-order-email", emailHandler.SendOrderEmail)
		api.POST("/webhook", webhookHandler.Handle)

		api.POST("/admin/login", adminHandler.Login)
		api.GET("/orders", adminMw, orderHandler.List)
		api.GET("/order/:id", orderHandler.Get)
		api.PUT("/order/:id/status", adminMw, orderHandler.UpdateStatus)
	}

	r.GET("/ws/admin/orders", feed.Handle(&cfg.Admin))

	return r
}
