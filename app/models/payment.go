package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	PaymentMethodStripe   = "Stripe"
	PaymentMethodPayPal   = "PayPal"
	PaymentMethodRazorpay = "Razorpay"
)

// Payment is one provider-confirmed payment attempt. A row exists only
// after the provider returned a transaction id; rows are never updated
// or deleted here (refunds are handled outside this service).
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email         string    `gorm:"type:varchar(200);not null;index" json:"email" validate:"required,email,max=200"`
	Amount        float64   `gorm:"type:decimal(10,2);not null" json:"amount" validate:"required,gt=0"`
	PaymentMethod string    `gorm:"type:varchar(20);not null;index" json:"payment_method" validate:"oneof=Stripe PayPal Razorpay"`
	TransactionID string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"transaction_id" validate:"required"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Payment) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
