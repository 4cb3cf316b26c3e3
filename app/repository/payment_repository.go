package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/adlcare/paygate/app/models"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create persists a new payment record
func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID retrieves a payment by its ID
func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByTransactionID retrieves a payment by its provider-assigned transaction id
func (r *paymentRepository) GetByTransactionID(transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByEmail retrieves payments made with the given payer email
func (r *paymentRepository) GetByEmail(email string, offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("email = ?", email).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&payments).Error
	return payments, err
}

// List retrieves payments ordered by creation time, newest first
func (r *paymentRepository) List(offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	return payments, err
}

// Count returns the total number of payment records
func (r *paymentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Count(&count).Error
	return count, err
}

// CountByMethod returns the number of payments made via the given provider
func (r *paymentRepository) CountByMethod(method string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Where("payment_method = ?", method).Count(&count).Error
	return count, err
}

// SumAmountByMethod returns the summed major-unit amount for a provider
func (r *paymentRepository) SumAmountByMethod(method string) (float64, error) {
	var sum float64
	err := r.db.Model(&models.Payment{}).
		Where("payment_method = ?", method).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// GetCreatedBetween retrieves payments created in the given time window
func (r *paymentRepository) GetCreatedBetween(start, end time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}
