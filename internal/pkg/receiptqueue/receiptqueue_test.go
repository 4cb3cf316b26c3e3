package receiptqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobTypeAndStatusConstants(t *testing.T) {
	assert.Equal(t, "receipt_delivery", string(JobTypeReceiptDelivery))

	assert.Equal(t, "pending", string(JobStatusPending))
	assert.Equal(t, "processing", string(JobStatusProcessing))
	assert.Equal(t, "completed", string(JobStatusCompleted))
	assert.Equal(t, "failed", string(JobStatusFailed))
	assert.Equal(t, "retrying", string(JobStatusRetrying))
}

func TestJobStatusTransitions(t *testing.T) {
	job := &Job{
		Status:     JobStatusFailed,
		RetryCount: 1,
		MaxRetries: 3,
	}

	assert.True(t, job.IsRetryable())

	job.RetryCount = 3
	assert.False(t, job.IsRetryable())

	beforeTime := time.Now()

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.ProcessedAt)
	assert.False(t, job.UpdatedAt.Before(beforeTime))

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.ErrorMsg)

	job.MarkAsFailed("smtp timeout")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "smtp timeout", job.ErrorMsg)
	assert.Equal(t, 4, job.RetryCount)

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)
}

func TestReceiptDeliveryJobPayloadRoundTrip(t *testing.T) {
	payload := ReceiptDeliveryJobPayload{
		Name:          "Alice",
		Email:         "a@x.com",
		Amount:        20,
		Method:        "Stripe",
		TransactionID: "pi_123",
	}

	data := payload.ToMap()
	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, "a@x.com", data["email"])
	assert.Equal(t, float64(20), data["amount"])
	assert.Equal(t, "Stripe", data["method"])
	assert.Equal(t, "pi_123", data["transaction_id"])

	restored, err := ReceiptDeliveryJobPayloadFromMap(data)
	require.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestReceiptDeliveryJobPayloadFromMap_IgnoresUnknownFields(t *testing.T) {
	restored, err := ReceiptDeliveryJobPayloadFromMap(map[string]interface{}{
		"name":           "Bob",
		"email":          "b@x.com",
		"amount":         50.0,
		"method":         "Razorpay",
		"transaction_id": "order_9",
		"legacy_field":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "order_9", restored.TransactionID)
	assert.Equal(t, float64(50), restored.Amount)
}
