package controllers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/adlcare/paygate/app/models"
	"github.com/adlcare/paygate/app/repository"
	"github.com/adlcare/paygate/internal/pkg/cache"
	"github.com/adlcare/paygate/internal/pkg/metrics/counter"
	"github.com/adlcare/paygate/internal/pkg/payment"
	"github.com/adlcare/paygate/internal/pkg/receiptqueue"
)

const idempotencyKeyTTL = 24 * time.Hour

// PaymentRequest is the body accepted by all three payment routes.
// Amount is in major currency units.
type PaymentRequest struct {
	Name   string  `json:"name" validate:"required,min=2,max=150"`
	Email  string  `json:"email" validate:"required,email,max=200"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// ReceiptDispatcher hands a persisted payment off for asynchronous
// receipt generation and mailing.
type ReceiptDispatcher interface {
	EnqueueReceiptDeliveryJob(payload receiptqueue.ReceiptDeliveryJobPayload) (*receiptqueue.Job, error)
}

// PaymentController orchestrates the payment flow for every provider:
// validate -> provider call -> persist record -> enqueue receipt. The
// three routes share this one flow; only the provider and the success
// payload field differ.
type PaymentController struct {
	providers map[string]payment.Provider
	repo      repository.PaymentRepository
	receipts  ReceiptDispatcher
	validate  *validator.Validate

	// claimIdempotencyKey reports whether the key was seen for the
	// first time. Swappable in tests.
	claimIdempotencyKey func(key string) (bool, error)
}

// NewPaymentController wires a controller from explicit dependencies.
func NewPaymentController(providers map[string]payment.Provider, repo repository.PaymentRepository, receipts ReceiptDispatcher) *PaymentController {
	return &PaymentController{
		providers:           providers,
		repo:                repo,
		receipts:            receipts,
		validate:            validator.New(),
		claimIdempotencyKey: claimIdempotencyKey,
	}
}

// InitializePaymentController builds the controller from environment
// configuration, the global repository factory and the receipt queue.
func InitializePaymentController() *PaymentController {
	providers := map[string]payment.Provider{
		models.PaymentMethodStripe:   payment.NewStripeProviderFromEnv(),
		models.PaymentMethodRazorpay: payment.NewRazorpayProviderFromEnv(),
	}
	if paypalProvider, err := payment.NewPayPalProviderFromEnv(); err != nil {
		log.Warnf("PayPal provider unavailable: %v", err)
	} else {
		providers[models.PaymentMethodPayPal] = paypalProvider
	}

	return NewPaymentController(
		providers,
		repository.GetGlobalFactory().GetPaymentRepository(),
		receiptqueue.GetManager().GetQueue(),
	)
}

// HandlePay returns the handler for one provider route.
func (pc *PaymentController) HandlePay(method string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return pc.pay(c, method)
	}
}

func (pc *PaymentController) pay(c *fiber.Ctx, method string) error {
	provider, ok := pc.providers[method]
	if !ok || provider == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": method + " payments are not configured",
		})
	}

	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "invalid request body",
		})
	}
	if err := pc.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": err.Error(),
		})
	}

	// Re-sending an identical request would otherwise charge twice;
	// callers can opt in to protection via the Idempotency-Key header.
	if key := c.Get("Idempotency-Key"); key != "" {
		fresh, err := pc.claimIdempotencyKey(method + ":" + key)
		if err != nil {
			log.Warnf("Idempotency check unavailable, continuing: %v", err)
		} else if !fresh {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false, "message": "duplicate request",
			})
		}
	}

	result, err := provider.Create(c.UserContext(), payment.ChargeRequest{
		Name:   req.Name,
		Email:  req.Email,
		Amount: req.Amount,
	})
	if err != nil {
		pc.recordOutcome(method, false)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": err.Error(),
		})
	}

	// The record exists only after the provider assigned an id.
	record := &models.Payment{
		Name:          req.Name,
		Email:         req.Email,
		Amount:        req.Amount,
		PaymentMethod: method,
		TransactionID: result.TransactionID,
	}
	if err := pc.repo.Create(record); err != nil {
		pc.recordOutcome(method, false)
		log.Errorf("Failed to persist %s payment %s: %v", method, result.TransactionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "failed to persist payment record",
		})
	}
	pc.recordOutcome(method, true)

	// Receipt + email are decoupled from the response; a queue failure
	// is logged but the payment already succeeded.
	if _, err := pc.receipts.EnqueueReceiptDeliveryJob(receiptqueue.ReceiptDeliveryJobPayload{
		Name:          req.Name,
		Email:         req.Email,
		Amount:        req.Amount,
		Method:        method,
		TransactionID: result.TransactionID,
	}); err != nil {
		log.Errorf("Failed to enqueue receipt for %s: %v", result.TransactionID, err)
	}

	response := fiber.Map{"success": true}
	switch method {
	case models.PaymentMethodStripe:
		response["clientSecret"] = result.ClientSecret
	case models.PaymentMethodPayPal:
		response["paymentUrl"] = result.ApprovalURL
	case models.PaymentMethodRazorpay:
		response["orderId"] = result.OrderID
	}
	return c.JSON(response)
}

// HandleStats returns per-provider payment totals from the database
// together with the live Redis counters.
func (pc *PaymentController) HandleStats(c *fiber.Ctx) error {
	methods := []string{
		models.PaymentMethodStripe,
		models.PaymentMethodPayPal,
		models.PaymentMethodRazorpay,
	}

	payments := fiber.Map{}
	for _, method := range methods {
		count, err := pc.repo.CountByMethod(method)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": "failed to load payment totals",
			})
		}
		sum, err := pc.repo.SumAmountByMethod(method)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": "failed to load payment totals",
			})
		}
		payments[method] = fiber.Map{"count": count, "total_amount": sum}
	}

	response := fiber.Map{"success": true, "payments": payments}

	succeeded, failed, err := counter.Totals()
	if err != nil {
		log.Warnf("Payment counters unavailable: %v", err)
	} else {
		response["counters"] = fiber.Map{"succeeded": succeeded, "failed": failed}
	}

	return c.JSON(response)
}

// HandleHealthz is the liveness probe.
func HandleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// recordOutcome feeds the Redis counters; counter failures never affect
// the payment response.
func (pc *PaymentController) recordOutcome(method string, succeeded bool) {
	var err error
	if succeeded {
		err = counter.AddPaymentSucceeded(method)
	} else {
		err = counter.AddPaymentFailed(method)
	}
	if err != nil {
		log.Warnf("Failed to update payment counter for %s: %v", method, err)
	}
}

// claimIdempotencyKey marks a key as used and reports whether this
// request was the first to claim it.
func claimIdempotencyKey(key string) (bool, error) {
	return cache.SetNX("payments:idempotency:"+key, 1, idempotencyKeyTTL)
}
