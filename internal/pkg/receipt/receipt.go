package receipt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/adlcare/paygate/internal/pkg/env"
)

// Data holds the five fields printed on every receipt.
type Data struct {
	Name          string
	Email         string
	Amount        float64
	Method        string
	TransactionID string
}

// Generator renders fixed-layout PDF receipts into a directory, one
// file per transaction.
type Generator struct {
	dir string
}

// NewGenerator creates a generator writing into the given directory.
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// NewGeneratorFromEnv creates a generator using RECEIPT_DIR.
func NewGeneratorFromEnv() *Generator {
	return NewGenerator(env.GetEnv("RECEIPT_DIR", "receipts"))
}

// Path returns the receipt file path for a transaction id. Same id,
// same path; uniqueness of the file follows from the provider-assigned
// id being unique.
func (g *Generator) Path(transactionID string) string {
	return filepath.Join(g.dir, transactionID+".pdf")
}

// Generate writes the receipt PDF and returns its path.
func (g *Generator) Generate(data Data) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 14)
	lines := []string{
		fmt.Sprintf("Name: %s", data.Name),
		fmt.Sprintf("Email: %s", data.Email),
		fmt.Sprintf("Amount: $%.2f", data.Amount),
		fmt.Sprintf("Payment Method: %s", data.Method),
		fmt.Sprintf("Transaction ID: %s", data.TransactionID),
	}
	for _, line := range lines {
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}

	path := g.Path(data.TransactionID)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write receipt %s: %w", path, err)
	}
	return path, nil
}
