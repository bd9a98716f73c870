// internal/pkg/pdf/receipt.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
)

// Service renders the active cart as a printable receipt/quote PDF
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ReceiptData holds the template data for one receipt
type ReceiptData struct {
	Title     string
	Date      string
	Viewer    string
	Items     []ReceiptLine
	ItemCount int
	Total     string
}

// ReceiptLine is one rendered cart row
type ReceiptLine struct {
	Name     string
	Category string
	Price    string
	Quantity int
	Subtotal string
}

// GenerateReceipt renders the given cart contents to PDF. The viewer
// label is the signed-in user's name or "Guest".
func (s *Service) GenerateReceipt(items []cart.LineItem, totals cart.Totals, viewer string) (*bytes.Buffer, error) {
	data := ReceiptData{
		Title:     fmt.Sprintf("%s — Cart Quote", s.config.App.Name),
		Date:      time.Now().Format("January 2, 2006"),
		Viewer:    viewer,
		ItemCount: totals.TotalQuantity,
		Total:     fmt.Sprintf("%.2f", totals.TotalPrice),
	}

	for _, item := range items {
		data.Items = append(data.Items, ReceiptLine{
			Name:     item.Product.Name,
			Category: item.Product.Category,
			Price:    item.Product.Price,
			Quantity: item.Quantity,
			Subtotal: fmt.Sprintf("%.2f", item.Subtotal()),
		})
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(96)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.EnableLocalFileAccess.Set(false)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return pdfg.Buffer(), nil
}

func (s *Service) generateHTML(data ReceiptData) (string, error) {
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse receipt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute receipt template: %w", err)
	}

	return buf.String(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
  h1 { font-size: 20px; margin-bottom: 4px; }
  .meta { color: #666; font-size: 12px; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; font-size: 13px; }
  th { background: #f5f5f5; }
  td.num, th.num { text-align: right; }
  .total-row td { font-weight: bold; border-top: 2px solid #222; }
</style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">{{.Date}} &middot; Prepared for {{.Viewer}}</div>
  <table>
    <tr>
      <th>Item</th>
      <th>Category</th>
      <th class="num">Price</th>
      <th class="num">Qty</th>
      <th class="num">Subtotal</th>
    </tr>
    {{range .Items}}
    <tr>
      <td>{{.Name}}</td>
      <td>{{.Category}}</td>
      <td class="num">{{.Price}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.Subtotal}}</td>
    </tr>
    {{end}}
    <tr class="total-row">
      <td colspan="3">Total ({{.ItemCount}} items)</td>
      <td colspan="2" class="num">{{.Total}}</td>
    </tr>
  </table>
</body>
</html>`
