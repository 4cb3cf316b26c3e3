package payment

import (
	"context"
	"math"
	"strconv"
)

// ChargeRequest is the provider-agnostic input for one payment attempt.
// Amount is in major currency units (dollars, rupees).
type ChargeRequest struct {
	Name   string
	Email  string
	Amount float64
}

// ChargeResult carries the provider-assigned transaction id plus the
// provider-specific field the caller needs to complete the payment.
type ChargeResult struct {
	TransactionID string
	ClientSecret  string // Stripe payment intent client secret
	ApprovalURL   string // PayPal approval redirect link
	OrderID       string // Razorpay order id
}

// Provider wraps one external payment API. Success yields a stable
// transaction identifier; failure yields the provider's error untouched
// so its message can be surfaced to the caller.
type Provider interface {
	Method() string
	Create(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// MinorUnits converts a major-unit amount to integer minor units
// (cents, paisa).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatMajorUnits renders a major-unit amount with two decimals, the
// format PayPal expects for purchase unit values.
func FormatMajorUnits(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
