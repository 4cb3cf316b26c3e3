package mail

import (
	"fmt"
	"log"

	gomail "github.com/wneessen/go-mail"

	"github.com/adlcare/paygate/internal/pkg/env"
)

const (
	receiptSubject = "Payment Receipt"
	receiptBody    = "Thank you for your payment. Please find the receipt attached."
)

// SendReceipt emails the receipt file at filePath to the payer.
func SendReceipt(to string, filePath string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnvInt("SMTP_PORT", 587)
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	msg := gomail.NewMsg()
	if err := msg.From(sender); err != nil {
		return fmt.Errorf("invalid sender address %s: %w", sender, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %s: %w", to, err)
	}
	msg.Subject(receiptSubject)
	msg.SetBodyString(gomail.TypeTextPlain, receiptBody)
	msg.AttachFile(filePath, gomail.WithFileName("receipt.pdf"))

	opts := []gomail.Option{gomail.WithPort(port)}
	if username != "" && password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		log.Printf("SMTP send error: %v", err)
		return err
	}

	log.Printf("Receipt email sent to %s via %s:%d", to, host, port)
	return nil
}
