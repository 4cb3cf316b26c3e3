package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/adlcare/paygate/app/models"
	"github.com/adlcare/paygate/internal/pkg/env"
)

// RazorpayConfig holds the Razorpay API key pair.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// RazorpayProvider creates orders via the Razorpay Orders API.
type RazorpayProvider struct {
	client *razorpay.Client
	now    func() time.Time
}

// NewRazorpayProviderFromEnv builds a Razorpay provider from environment
// configuration.
func NewRazorpayProviderFromEnv() *RazorpayProvider {
	return NewRazorpayProvider(&RazorpayConfig{
		KeyID:     strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_ID", "")),
		KeySecret: strings.TrimSpace(env.GetEnv("RAZORPAY_SECRET", "")),
	})
}

// NewRazorpayProvider builds a Razorpay provider from an explicit config.
func NewRazorpayProvider(cfg *RazorpayConfig) *RazorpayProvider {
	return &RazorpayProvider{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		now:    time.Now,
	}
}

func (p *RazorpayProvider) Method() string {
	return models.PaymentMethodRazorpay
}

// Create opens an INR order over the minor-unit (paisa) amount with a
// receipt label derived from the current time.
func (p *RazorpayProvider) Create(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	_ = ctx // the razorpay-go client does not take a context

	order, err := p.client.Order.Create(OrderPayload(req.Amount, p.now()), nil)
	if err != nil {
		return nil, err
	}

	id, ok := order["id"].(string)
	if !ok || id == "" {
		return nil, errors.New("razorpay order response has no id")
	}

	return &ChargeResult{
		TransactionID: id,
		OrderID:       id,
	}, nil
}

// OrderPayload builds the Razorpay order creation payload: amount in
// paisa, currency INR, receipt label rec_<unix>.
func OrderPayload(amount float64, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"amount":   MinorUnits(amount),
		"currency": "INR",
		"receipt":  fmt.Sprintf("rec_%d", now.Unix()),
	}
}
