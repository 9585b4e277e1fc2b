package receipt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/jafarshop/pos-checkout/internal/checkout"
	"github.com/jafarshop/pos-checkout/internal/domain"
)

// Printer sends a rendered receipt to the host environment's print facility.
type Printer interface {
	Print(content string) error
}

const receiptTemplate = `================================
        RETAIL RECEIPT
================================
Order:    {{.Order.OrderID}}
Customer: {{.Order.CustomerName}}
Phone:    {{.Order.PhoneNumber}}
--------------------------------
{{range .Order.CartItems -}}
{{printf "%-18s x%-3d %9.2f" .Name .Quantity (mul .UnitPrice .Quantity)}}
{{end -}}
--------------------------------
{{printf "Subtotal %22.2f" .Order.Subtotal}}
{{printf "Tax (1%%) %22.2f" .Order.Tax}}
{{printf "Total    %22.2f" .Order.GrandTotal}}
--------------------------------
Paid by: {{.Order.PaymentMethod}}
{{- if .Payment}}
Gateway intent: {{.Payment.GatewayIntentID}}
Payment method: {{.Payment.GatewayPaymentMethodID}}
{{- end}}
================================
`

// Presenter renders settled checkout sessions as printable receipts.
type Presenter struct {
	tmpl    *template.Template
	printer Printer
}

// NewPresenter creates a new receipt presenter. The printer may be nil when
// only rendering is needed.
func NewPresenter(printer Printer) *Presenter {
	tmpl := template.Must(template.New("receipt").Funcs(template.FuncMap{
		"mul": func(price float64, qty int) float64 {
			return price * float64(qty)
		},
	}).Parse(receiptTemplate))

	return &Presenter{
		tmpl:    tmpl,
		printer: printer,
	}
}

// Render produces the receipt text for a settled session snapshot.
func (p *Presenter) Render(snap checkout.Snapshot) (string, error) {
	if snap.Phase != checkout.PhaseSettled {
		return "", fmt.Errorf("cannot render receipt for session in phase %s", snap.Phase)
	}
	if snap.Order == nil || snap.Order.Status != domain.OrderStatusPaid {
		return "", fmt.Errorf("cannot render receipt for unpaid order")
	}

	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, snap); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return sb.String(), nil
}

// Print renders the snapshot and sends it to the configured printer.
func (p *Presenter) Print(snap checkout.Snapshot) error {
	if p.printer == nil {
		return fmt.Errorf("no printer configured")
	}
	content, err := p.Render(snap)
	if err != nil {
		return err
	}
	return p.printer.Print(content)
}
