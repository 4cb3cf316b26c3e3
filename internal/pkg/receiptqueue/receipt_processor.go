package receiptqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/adlcare/paygate/internal/pkg/mail"
	"github.com/adlcare/paygate/internal/pkg/receipt"
	"github.com/adlcare/paygate/internal/pkg/s3archive"
)

// processReceiptDeliveryJob renders the receipt PDF, emails it to the
// payer and, when configured, archives a copy to S3. A failure in any
// step fails the whole job; the generator and mailer are idempotent per
// transaction id so a retry simply re-renders and re-sends.
func (q *Queue) processReceiptDeliveryJob(ctx context.Context, job *Job) error {
	payload, err := ReceiptDeliveryJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("failed to parse receipt delivery payload: %w", err)
	}

	generator := receipt.NewGeneratorFromEnv()
	filePath, err := generator.Generate(receipt.Data{
		Name:          payload.Name,
		Email:         payload.Email,
		Amount:        payload.Amount,
		Method:        payload.Method,
		TransactionID: payload.TransactionID,
	})
	if err != nil {
		return fmt.Errorf("failed to generate receipt: %w", err)
	}
	log.Infof("[ReceiptQueue] Generated receipt %s", filePath)

	if err := mail.SendReceipt(payload.Email, filePath); err != nil {
		return fmt.Errorf("failed to email receipt %s: %w", payload.TransactionID, err)
	}

	return q.archiveReceipt(payload.TransactionID, filePath)
}

// archiveReceipt uploads the receipt to the archive bucket when
// archiving is configured. Disabled archiving is not an error.
func (q *Queue) archiveReceipt(transactionID, filePath string) error {
	config, err := s3archive.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load archive config: %w", err)
	}
	if !config.IsEnabled() {
		return nil
	}

	client, err := s3archive.NewClient(config)
	if err != nil {
		return fmt.Errorf("failed to create archive client: %w", err)
	}

	now := time.Now()
	objectKey := config.GetObjectKey(transactionID, now.Year(), int(now.Month()))

	result, err := client.UploadFile(filePath, objectKey)
	if err != nil {
		return fmt.Errorf("failed to archive receipt: %w", err)
	}

	log.Infof("[ReceiptQueue] Archived receipt %s to s3://%s/%s (%d bytes)",
		transactionID, result.BucketName, result.ObjectKey, result.Size)
	return nil
}
