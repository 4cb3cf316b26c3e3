package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adlcare/paygate/app/models"
	"github.com/adlcare/paygate/internal/pkg/payment"
	"github.com/adlcare/paygate/internal/pkg/receiptqueue"
)

type stubProvider struct {
	method string
	result *payment.ChargeResult
	err    error
	gotReq *payment.ChargeRequest
}

func (s *stubProvider) Method() string { return s.method }

func (s *stubProvider) Create(_ context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	s.gotReq = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type memoryPaymentRepository struct {
	payments  []models.Payment
	createErr error
}

func (r *memoryPaymentRepository) Create(p *models.Payment) error {
	if r.createErr != nil {
		return r.createErr
	}
	p.ID = uint(len(r.payments) + 1)
	p.CreatedAt = time.Now()
	r.payments = append(r.payments, *p)
	return nil
}

func (r *memoryPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	for i := range r.payments {
		if r.payments[i].ID == id {
			return &r.payments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryPaymentRepository) GetByTransactionID(transactionID string) (*models.Payment, error) {
	for i := range r.payments {
		if r.payments[i].TransactionID == transactionID {
			return &r.payments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryPaymentRepository) GetByEmail(email string, offset, limit int) ([]models.Payment, error) {
	var result []models.Payment
	for _, p := range r.payments {
		if p.Email == email {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *memoryPaymentRepository) List(offset, limit int) ([]models.Payment, error) {
	return r.payments, nil
}

func (r *memoryPaymentRepository) Count() (int64, error) {
	return int64(len(r.payments)), nil
}

func (r *memoryPaymentRepository) CountByMethod(method string) (int64, error) {
	var count int64
	for _, p := range r.payments {
		if p.PaymentMethod == method {
			count++
		}
	}
	return count, nil
}

func (r *memoryPaymentRepository) SumAmountByMethod(method string) (float64, error) {
	var sum float64
	for _, p := range r.payments {
		if p.PaymentMethod == method {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (r *memoryPaymentRepository) GetCreatedBetween(start, end time.Time) ([]models.Payment, error) {
	return r.payments, nil
}

type stubDispatcher struct {
	payloads []receiptqueue.ReceiptDeliveryJobPayload
	err      error
}

func (d *stubDispatcher) EnqueueReceiptDeliveryJob(payload receiptqueue.ReceiptDeliveryJobPayload) (*receiptqueue.Job, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.payloads = append(d.payloads, payload)
	return &receiptqueue.Job{ID: "job-1", Type: receiptqueue.JobTypeReceiptDelivery}, nil
}

type testHarness struct {
	app        *fiber.App
	controller *PaymentController
	repo       *memoryPaymentRepository
	dispatcher *stubDispatcher
}

func newTestHarness(providers map[string]payment.Provider) *testHarness {
	repo := &memoryPaymentRepository{}
	dispatcher := &stubDispatcher{}
	controller := NewPaymentController(providers, repo, dispatcher)
	// Tests opt into idempotency behavior explicitly.
	controller.claimIdempotencyKey = func(string) (bool, error) { return true, nil }

	app := fiber.New()
	app.Post("/pay/stripe", controller.HandlePay(models.PaymentMethodStripe))
	app.Post("/pay/paypal", controller.HandlePay(models.PaymentMethodPayPal))
	app.Post("/pay/razorpay", controller.HandlePay(models.PaymentMethodRazorpay))
	app.Get("/stats", controller.HandleStats)

	return &testHarness{app: app, controller: controller, repo: repo, dispatcher: dispatcher}
}

func postPayment(t *testing.T, app *fiber.App, path string, body map[string]interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestPayStripe_Success(t *testing.T) {
	provider := &stubProvider{
		method: models.PaymentMethodStripe,
		result: &payment.ChargeResult{TransactionID: "pi_123", ClientSecret: "pi_123_secret_abc"},
	}
	h := newTestHarness(map[string]payment.Provider{models.PaymentMethodStripe: provider})

	resp, body := postPayment(t, h.app, "/pay/stripe", map[string]interface{}{
		"name": "Alice", "email": "a@x.com", "amount": 20,
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "pi_123_secret_abc", body["clientSecret"])

	require.Len(t, h.repo.payments, 1)
	record := h.repo.payments[0]
	assert.Equal(t, "Alice", record.Name)
	assert.Equal(t, "a@x.com", record.Email)
	assert.Equal(t, float64(20), record.Amount)
	assert.Equal(t, models.PaymentMethodStripe, record.PaymentMethod)
	assert.Equal(t, "pi_123", record.TransactionID)

	require.Len(t, h.dispatcher.payloads, 1)
	assert.Equal(t, "pi_123", h.dispatcher.payloads[0].TransactionID)
	assert.Equal(t, "a@x.com", h.dispatcher.payloads[0].Email)
}

func TestPayPayPal_Success(t *testing.T) {
	provider := &stubProvider{
		method: models.PaymentMethodPayPal,
		result: &payment.ChargeResult{
			TransactionID: "PAYID-123",
			ApprovalURL:   "https://www.paypal.example/approve?token=123",
		},
	}
	h := newTestHarness(map[string]payment.Provider{models.PaymentMethodPayPal: provider})

	resp, body := postPayment(t, h.app, "/pay/paypal", map[string]interface{}{
		"name": "Bob", "email": "b@x.com", "amount": 15,
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://www.paypal.example/approve?token=123", body["paymentUrl"])
	require.Len(t, h.repo.payments, 1)
	assert.Equal(t, "PAYID-123", h.repo.payments[0].TransactionID)
}

func TestPayRazorpay_Success(t *testing.T) {
	provider := &stubProvider{
		method: models.PaymentMethodRazorpay,
		result: &payment.ChargeResult{TransactionID: "order_9", OrderID: "order_9"},
	}
	h := newTestHarness(map[string]payment.Provider{models.PaymentMethodRazorpay: provider})

	resp, body := postPayment(t, h.app, "/pay/razorpay", map[string]interface{}{
		"name": "Carol", "email": "c@x.com", "amount": 50,
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "order_9", body["orderId"])

	require.NotNil(t, provider.gotReq)
	assert.Equal(t, float64(50), provider.gotReq.Amount)
}

func TestPay_ProviderFailure(t *testing.T) {
	provider := &stubProvider{
		method: models.PaymentMethodStripe,
		err:    errors.New("card_declined"),
	}
	h := newTestHarness(map[string]payment.Provider{models.PaymentMethodStripe: provider})

	resp, body := postPayment(t, h.app, "/pay/stripe", map[string]interface{}{
		"name": "Alice", "email": "a@x.com", "amount": 20,
	})

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "card_declined", body["message"])
	assert.Empty(t, h.repo.payments)
	assert.Empty(t, h.dispatcher.payloads)
}

func TestPay_ValidationFailure(t *testing.T) {
	provider := &stubProvider{method: models.PaymentMethodStripe}
	h := newTestHarness(map[string]payment.Provider{models.PaymentMethodStripe: provider})

	resp, body := postPayment(t, h.app, "/pay/stripe", map[string]interface{}{
		"name": "Alice", "amount": 20,
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Nil(t, provider.gotReq, "provider must not be called for invalid input")
	assert.Empty(t, h.repo.payments)
}

func TestPay_InvalidJSONBody(t *testing.T) {
	h := newTestHarness(map[string]payment.Provider{
		models.PaymentMethodStripe: &stubProvider{method: models.PaymentMethodStripe},
	})

	req := httptest.NewRequest(http.MethodPost, "/pay/stripe", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPay_UnconfiguredProvider(t *testing.T) {
	h := newTestHarness(map[string]payment.Provider{})

	resp, body := postPayment(t, h.app, "/pay/paypal", map[string]interface{}{
		"name": "Alice", "email": "a@x.com", "amount": 20,
	})

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Empty(t, h.repo.payments)
}

func TestPay_PersistenceFailure(t *testing.T) {
	provider := &stubProvider{
		method: models.PaymentMethodStripe,
		result: &payment.ChargeResult{TransactionID: "pi_456", ClientSecret: "secret"},
	}
	h := newTestHarness(map[string]payment.Provider{models.PaymentMethodStripe: provider})
	h.repo.createErr = errors.New("connection lost")

	resp, body := postPayment(t, h.app, "/pay/stripe", map[string]interface{}{
		"name": "Alice", "email": "a@x.com", "amount": 20,
	})

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "failed to persist payment record", body["message"])
	assert.Empty(t, h.dispatcher.payloads, "no receipt for an unpersisted payment")
}

func TestPay_DuplicateIdempotencyKey(t *testing.T) {
	provider := &stubProvider{
		method: models.PaymentMethodStripe,
		result: &payment.ChargeResult{TransactionID: "pi_789", ClientSecret: "secret"},
	}
	h := newTestHarness(map[string]payment.Provider{models.PaymentMethodStripe: provider})

	seen := map[string]bool{}
	h.controller.claimIdempotencyKey = func(key string) (bool, error) {
		if seen[key] {
			return false, nil
		}
		seen[key] = true
		return true, nil
	}

	raw, err := json.Marshal(map[string]interface{}{
		"name": "Alice", "email": "a@x.com", "amount": 20,
	})
	require.NoError(t, err)

	for i, wantStatus := range []int{fiber.StatusOK, fiber.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/pay/stripe", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "key-1")
		resp, err := h.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, wantStatus, resp.StatusCode, "request %d", i+1)
	}

	assert.Len(t, h.repo.payments, 1, "duplicate request must not create a second record")
}

func TestPay_ReceiptQueueFailureDoesNotAffectResponse(t *testing.T) {
	provider := &stubProvider{
		method: models.PaymentMethodStripe,
		result: &payment.ChargeResult{TransactionID: "pi_999", ClientSecret: "secret"},
	}
	h := newTestHarness(map[string]payment.Provider{models.PaymentMethodStripe: provider})
	h.dispatcher.err = errors.New("queue unavailable")

	resp, body := postPayment(t, h.app, "/pay/stripe", map[string]interface{}{
		"name": "Alice", "email": "a@x.com", "amount": 20,
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Len(t, h.repo.payments, 1)
}

func TestHandleStats(t *testing.T) {
	h := newTestHarness(map[string]payment.Provider{})
	h.repo.payments = []models.Payment{
		{PaymentMethod: models.PaymentMethodStripe, Amount: 20},
		{PaymentMethod: models.PaymentMethodStripe, Amount: 30},
		{PaymentMethod: models.PaymentMethodRazorpay, Amount: 50},
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	payments := body["payments"].(map[string]interface{})

	stripeStats := payments[models.PaymentMethodStripe].(map[string]interface{})
	assert.Equal(t, float64(2), stripeStats["count"])
	assert.Equal(t, float64(50), stripeStats["total_amount"])

	razorpayStats := payments[models.PaymentMethodRazorpay].(map[string]interface{})
	assert.Equal(t, float64(1), razorpayStats["count"])
}

func TestHandleHealthz(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", HandleHealthz)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
