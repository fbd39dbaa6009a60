package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Number returns a fresh invoice number in the INV-<YYYY><MM>-<suffix>
// format. The millisecond suffix keeps numbers unique; the payments table
// additionally carries a unique constraint on the column.
func Number(now time.Time) string {
	return fmt.Sprintf("INV-%d%02d-%d", now.Year(), int(now.Month()), now.UnixMilli())
}

// Details carries the fields rendered onto an invoice document.
type Details struct {
	InvoiceNumber string
	MemberName    string
	MemberEmail   string
	Amount        float64
	PaymentType   string
	Description   string
	Date          time.Time
}

// Generator renders invoice PDFs into a fixed directory.
type Generator struct {
	dir string
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Generate writes the invoice PDF and returns its path.
func (g *Generator) Generate(d Details) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create invoice directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "GymPro Fitness Center")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Invoice %s", d.InvoiceNumber))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Date", d.Date.Format("Jan 2, 2006")},
		{"Billed to", d.MemberName},
		{"Email", d.MemberEmail},
		{"Payment type", d.PaymentType},
		{"Description", d.Description},
	}
	for _, row := range rows {
		pdf.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 10, fmt.Sprintf("Total: $%.2f", d.Amount))

	path := filepath.Join(g.dir, fmt.Sprintf("%s.pdf", d.InvoiceNumber))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write invoice pdf: %w", err)
	}

	return path, nil
}
