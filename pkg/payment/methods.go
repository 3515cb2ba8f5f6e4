package payment

import (
	"errors"
	"fmt"
)

// ErrUnknownMethod rejects any payment method outside the closed set.
var ErrUnknownMethod = errors.New("unknown payment method")

// MerchantContact is the payee shown in transfer instructions.
type MerchantContact struct {
	Name     string
	Email    string
	Phone    string
	WhatsApp string
}

// MethodInfo describes the processing path for one payment method. Instant
// methods are pre-confirmed by the card widget before the order endpoint is
// called; deferred methods leave the order pending until manual confirmation.
type MethodInfo struct {
	Method       string
	Label        string
	Instant      bool
	Instructions string // HTML block for the confirmation email and UI
	Message      string // response message shown to the customer
}

// Router maps a method tag to its processing path and instructional content.
type Router struct {
	contact MerchantContact
}

func NewRouter(contact MerchantContact) *Router {
	return &Router{contact: contact}
}

// Resolve fails closed: a tag outside the closed method set is an error, never
// a silent default.
func (r *Router) Resolve(method string) (MethodInfo, error) {
	switch method {
	case "stripe":
		return MethodInfo{
			Method:       method,
			Label:        "Carte Bancaire (Stripe)",
			Instant:      true,
			Instructions: "<p><strong>💳 Paiement par Carte Bancaire</strong></p><p>Votre paiement a été traité avec succès.</p>",
			Message:      "Commande confirmée et paiement reçu",
		}, nil
	case "bank":
		return MethodInfo{
			Method:  method,
			Label:   "Virement Bancaire Direct",
			Instant: false,
			Instructions: fmt.Sprintf(
				"<p><strong>🏦 Virement Bancaire</strong></p><p>Bénéficiaire: <strong>%s</strong></p><p>Veuillez envoyer une capture d'écran du virement à: <strong>%s</strong> via WhatsApp</p>",
				r.contact.Name, r.contact.WhatsApp),
			Message: "Commande en attente de paiement",
		}, nil
	case "wave":
		return r.mobileMoney(method, "📱 Wave Mobile Money", "Commande reçue - En attente de confirmation Wave"), nil
	case "orange":
		return r.mobileMoney(method, "🟠 Orange Money", "Commande reçue - En attente de confirmation Orange Money"), nil
	case "mtn":
		return r.mobileMoney(method, "🟡 MTN Mobile Money", "Commande reçue - En attente de confirmation MTN Mobile Money"), nil
	default:
		return MethodInfo{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

func (r *Router) mobileMoney(method, label, message string) MethodInfo {
	return MethodInfo{
		Method:  method,
		Label:   label,
		Instant: false,
		Instructions: fmt.Sprintf(
			"<p><strong>%s</strong></p><p>Envoyez le virement à: <strong>%s</strong><br>Puis envoyez la preuve via WhatsApp au même numéro.</p>",
			label, r.contact.Phone),
		Message: message,
	}
}

// BankDetails is echoed in deferred-method responses so the client can render
// the payee without parsing instruction HTML.
type BankDetails struct {
	Recipient string `json:"recipient"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	WhatsApp  string `json:"whatsapp"`
}

func (r *Router) BankDetails() BankDetails {
	return BankDetails{
		Recipient: r.contact.Name,
		Email:     r.contact.Email,
		Phone:     r.contact.Phone,
		WhatsApp:  r.contact.WhatsApp,
	}
}
