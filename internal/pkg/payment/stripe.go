package payment

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/adlcare/paygate/app/models"
	"github.com/adlcare/paygate/internal/pkg/env"
)

// StripeConfig holds the Stripe API credentials.
type StripeConfig struct {
	SecretKey string
}

// StripeProvider creates payment intents via the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProviderFromEnv builds a Stripe provider from environment
// configuration. An empty key is not an error here; the API rejects the
// call at charge time.
func NewStripeProviderFromEnv() *StripeProvider {
	return NewStripeProvider(&StripeConfig{
		SecretKey: strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
	})
}

// NewStripeProvider builds a Stripe provider from an explicit config.
func NewStripeProvider(cfg *StripeConfig) *StripeProvider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) Method() string {
	return models.PaymentMethodStripe
}

// Create opens a USD payment intent over the minor-unit amount and sets
// the payer's email as receipt recipient.
func (p *StripeProvider) Create(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(MinorUnits(req.Amount)),
		Currency:     stripe.String(string(stripe.CurrencyUSD)),
		ReceiptEmail: stripe.String(req.Email),
	}
	params.Context = ctx

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}

	return &ChargeResult{
		TransactionID: intent.ID,
		ClientSecret:  intent.ClientSecret,
	}, nil
}
