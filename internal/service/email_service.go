package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"calabash/config"
	"calabash/internal/models"
	"calabash/pkg/payment"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers one HTML email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(to, subject, html string) error
}

// SMTPSender delivers through the configured SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)
	return s.dialer.DialAndSend(m)
}

// NoopSender is used when no SMTP credentials are configured.
type NoopSender struct{}

func (NoopSender) Send(to, subject, html string) error { return nil }

// EmailService sends order confirmations to the customer and the operator.
// Every send is best-effort: failures are logged and never surfaced, because
// an email problem must not fail an order.
type EmailService struct {
	sender   Sender
	operator string
	contact  config.MerchantConfig
	timeout  time.Duration
	logger   *zap.Logger
}

func NewEmailService(sender Sender, cfg *config.Config, logger *zap.Logger) *EmailService {
	return &EmailService{
		sender:   sender,
		operator: cfg.SMTP.Operator,
		contact:  cfg.Merchant,
		timeout:  cfg.SMTP.Timeout,
		logger:   logger,
	}
}

// SendOrderConfirmation mails the customer and, when configured, the operator.
func (s *EmailService) SendOrderConfirmation(ctx context.Context, o *models.Order, info payment.MethodInfo) {
	html := s.buildOrderHTML(o, info)

	s.send(ctx, o.Email, "✓ Commande Confirmée - "+s.contact.Name, html)

	if s.operator != "" {
		adminHTML := html + fmt.Sprintf(`
<div style="margin-top: 20px; padding: 15px; background: #fff3cd; border-radius: 8px;">
    <h4>Informations Administrateur:</h4>
    <p><strong>Numéro de commande:</strong> %s</p>
    <p><strong>Téléphone du client:</strong> %s</p>
    <p><strong>Méthode de paiement:</strong> %s</p>
    <p><strong>Timestamp:</strong> %s</p>
</div>`, o.OrderID, o.Phone, info.Label, time.Now().Format("02/01/2006 15:04:05"))
		s.send(ctx, s.operator, "Nouvelle Commande Reçue - "+s.contact.Name, adminHTML)
	}
}

// send runs the SMTP call under a deadline so a stalled relay cannot hold the
// request path.
func (s *EmailService) send(ctx context.Context, to, subject, html string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.sender.Send(to, subject, html) }()
	select {
	case err := <-done:
		if err != nil {
			s.logger.Warn("email send failed", zap.String("to", to), zap.Error(err))
		}
	case <-ctx.Done():
		s.logger.Warn("email send timed out", zap.String("to", to))
	}
}

func (s *EmailService) buildOrderHTML(o *models.Order, info payment.MethodInfo) string {
	var items strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&items, `
                <div class="item">
                    <span>%s x %d</span>
                    <span>%.2f€</span>
                </div>`, it.Name, it.Quantity, it.Price*float64(it.Quantity))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #e74c3c 0%%, #f39c12 100%%); color: white; padding: 20px; border-radius: 8px; }
        .content { margin: 20px 0; }
        .order-items { background: #f9f9f9; padding: 15px; border-radius: 8px; margin: 15px 0; }
        .item { display: flex; justify-content: space-between; padding: 10px 0; border-bottom: 1px solid #eee; }
        .item:last-child { border-bottom: none; }
        .total { font-weight: bold; font-size: 1.2em; color: #e74c3c; margin-top: 15px; }
        .footer { background: #f0f0f0; padding: 15px; border-radius: 8px; margin-top: 20px; font-size: 0.9em; }
        .payment-box { background: #e8f4f8; padding: 15px; border-radius: 8px; margin: 15px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🍽️ %s - Confirmation de Commande</h1>
        </div>
        <div class="content">
            <p>Bonjour <strong>%s %s</strong>,</p>
            <p>Merci pour votre commande! Voici les détails:</p>
            <div class="order-items">
                <h3>Détails de la Commande:</h3>%s
                <div class="item">
                    <span>Frais de livraison</span>
                    <span>%.2f€</span>
                </div>
                <div class="total">
                    Total: %.2f€
                </div>
            </div>
            <h3>Adresse de Livraison:</h3>
            <p>
                %s %s<br>
                %s<br>
                %s %s<br>
                %s
            </p>
            <h3>Méthode de Paiement:</h3>
            <div class="payment-box">
                %s
            </div>
        </div>
        <div class="footer">
            <h4>Besoin d'aide?</h4>
            <p>📞 Téléphone: %s</p>
            <p>💬 WhatsApp: %s</p>
            <p>📧 Email: %s</p>
        </div>
    </div>
</body>
</html>`,
		s.contact.Name,
		o.FirstName, o.LastName,
		items.String(),
		o.ShippingFee,
		o.Total,
		o.FirstName, o.LastName,
		o.Address,
		o.Postal, o.City,
		o.Country,
		info.Instructions,
		s.contact.Phone,
		s.contact.WhatsApp,
		s.contact.Email,
	)
}
