package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/adlcare/paygate/app/models"
)

// PaymentRepository defines the interface for payment-related database operations
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByTransactionID(transactionID string) (*models.Payment, error)
	GetByEmail(email string, offset, limit int) ([]models.Payment, error)
	List(offset, limit int) ([]models.Payment, error)
	Count() (int64, error)
	CountByMethod(method string) (int64, error)
	SumAmountByMethod(method string) (float64, error)
	GetCreatedBetween(start, end time.Time) ([]models.Payment, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Payment PaymentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Payment: NewPaymentRepository(db),
	}
}
