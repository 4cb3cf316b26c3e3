package payment

import (
	"context"
	"strings"

	"github.com/plutov/paypal/v4"

	"github.com/adlcare/paygate/app/models"
	"github.com/adlcare/paygate/internal/pkg/env"
)

const paypalOrderDescription = "Donation Payment"

// PayPalConfig holds the PayPal REST credentials and the redirect URLs
// the payer is sent to after approving or cancelling.
type PayPalConfig struct {
	ClientID  string
	Secret    string
	APIBase   string
	ReturnURL string
	CancelURL string
}

// LoadPayPalConfig reads the PayPal configuration from the environment.
func LoadPayPalConfig() *PayPalConfig {
	apiBase := paypal.APIBaseSandBox
	if env.GetEnv("PAYPAL_MODE", "sandbox") == "live" {
		apiBase = paypal.APIBaseLive
	}
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:5000"), "/")

	return &PayPalConfig{
		ClientID:  strings.TrimSpace(env.GetEnv("PAYPAL_CLIENT_ID", "")),
		Secret:    strings.TrimSpace(env.GetEnv("PAYPAL_SECRET", "")),
		APIBase:   apiBase,
		ReturnURL: env.GetEnv("PAYPAL_RETURN_URL", base+"/success"),
		CancelURL: env.GetEnv("PAYPAL_CANCEL_URL", base+"/cancel"),
	}
}

// PayPalProvider creates orders via the PayPal Orders API.
type PayPalProvider struct {
	client *paypal.Client
	cfg    *PayPalConfig
}

// NewPayPalProvider builds a PayPal provider from an explicit config.
func NewPayPalProvider(cfg *PayPalConfig) (*PayPalProvider, error) {
	c, err := paypal.NewClient(cfg.ClientID, cfg.Secret, cfg.APIBase)
	if err != nil {
		return nil, err
	}
	return &PayPalProvider{client: c, cfg: cfg}, nil
}

// NewPayPalProviderFromEnv builds a PayPal provider from environment
// configuration.
func NewPayPalProviderFromEnv() (*PayPalProvider, error) {
	return NewPayPalProvider(LoadPayPalConfig())
}

func (p *PayPalProvider) Method() string {
	return models.PaymentMethodPayPal
}

// Create opens a USD order and returns its id together with the
// approval link the payer must be redirected to.
func (p *PayPalProvider) Create(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if _, err := p.client.GetAccessToken(ctx); err != nil {
		return nil, err
	}

	units := []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: "USD",
				Value:    FormatMajorUnits(req.Amount),
			},
			Description: paypalOrderDescription,
		},
	}
	appCtx := &paypal.ApplicationContext{
		ReturnURL: p.cfg.ReturnURL,
		CancelURL: p.cfg.CancelURL,
	}

	order, err := p.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appCtx)
	if err != nil {
		return nil, err
	}

	return &ChargeResult{
		TransactionID: order.ID,
		ApprovalURL:   approvalLink(order.Links),
	}, nil
}

// approvalLink picks the payer-facing redirect out of a HATEOAS link
// set. The Orders API labels it "approve".
func approvalLink(links []paypal.Link) string {
	for _, link := range links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	if len(links) > 1 {
		return links[1].Href
	}
	return ""
}
