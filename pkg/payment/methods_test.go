package payment

import (
	"errors"
	"strings"
	"testing"
)

func testRouter() *Router {
	return NewRouter(MerchantContact{
		Name:     "Calabash",
		Email:    "orders@calabash.example",
		Phone:    "+229 0143515312",
		WhatsApp: "+229 0143515312",
	})
}

func TestResolveInstantMethod(t *testing.T) {
	info, err := testRouter().Resolve("stripe")
	if err != nil {
		t.Fatalf("Resolve(stripe): %v", err)
	}
	if !info.Instant {
		t.Error("card payment must be instant")
	}
	if info.Message == "" || info.Instructions == "" {
		t.Error("method info must carry message and instructions")
	}
}

func TestResolveDeferredMethods(t *testing.T) {
	r := testRouter()
	for _, method := range []string{"bank", "wave", "orange", "mtn"} {
		info, err := r.Resolve(method)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", method, err)
		}
		if info.Instant {
			t.Errorf("%s must be deferred", method)
		}
		if info.Instructions == "" {
			t.Errorf("%s must carry payment instructions", method)
		}
	}
}

func TestResolveFailsClosed(t *testing.T) {
	for _, method := range []string{"", "paypal", "BANK", "cash"} {
		if _, err := testRouter().Resolve(method); !errors.Is(err, ErrUnknownMethod) {
			t.Errorf("Resolve(%q): expected ErrUnknownMethod, got %v", method, err)
		}
	}
}

func TestBankInstructionsNameTheMerchant(t *testing.T) {
	info, err := testRouter().Resolve("bank")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(info.Instructions, "Calabash") {
		t.Error("bank instructions must name the payee")
	}
}

func TestBankDetails(t *testing.T) {
	d := testRouter().BankDetails()
	if d.Recipient != "Calabash" || d.WhatsApp == "" {
		t.Errorf("unexpected bank details: %+v", d)
	}
}
