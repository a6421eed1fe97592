package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"wego/internal/commons"
	"wego/internal/domain"
	"wego/internal/infrastructure/mailer"
)

type InvoiceRenderer interface {
	Render(ctx context.Context, orderID string) (*domain.Invoice, error)
}

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// InvoiceNotifier emails the invoice of a completed order in the background.
// Outcomes are only logged.
type InvoiceNotifier struct {
	invoices InvoiceRenderer
	mailer   Mailer
	timeout  time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewInvoiceNotifier(invoices InvoiceRenderer, m Mailer, timeout time.Duration, logger *zap.Logger) *InvoiceNotifier {
	return &InvoiceNotifier{
		invoices: invoices,
		mailer:   m,
		timeout:  timeout,
		logger:   logger,
	}
}

// NotifyInvoice returns immediately. The delivery runs on its own context,
// unrelated to the request that triggered it.
func (n *InvoiceNotifier) NotifyInvoice(order domain.Order) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.deliver(ctx, order); err != nil {
			if errors.Is(err, mailer.ErrNotConfigured) {
				n.logger.Warn("invoice email skipped, mailer not configured", zap.String("orderId", order.OrderID))
				return
			}
			n.logger.Error("failed to send invoice email",
				zap.String("orderId", order.OrderID),
				zap.String("to", order.CustomerEmail),
				zap.Error(err),
			)
		}
	}()
}

// Drain waits for in-flight notifications or until ctx is done.
func (n *InvoiceNotifier) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining invoice notifications: %w", ctx.Err())
	}
}

func (n *InvoiceNotifier) deliver(ctx context.Context, order domain.Order) error {
	invoice, err := n.invoices.Render(ctx, order.OrderID)
	if err != nil {
		return fmt.Errorf("rendering invoice: %w", err)
	}

	msg, err := composeInvoiceEmail(*invoice)
	if err != nil {
		return err
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		return err
	}

	n.logger.Info("invoice email sent", zap.String("orderId", order.OrderID), zap.String("to", msg.To))
	return nil
}

func invoiceSubject(invoice domain.Invoice) string {
	prefix := "Invoice"
	if invoice.Paid() {
		prefix = "Paid Invoice"
	}
	return fmt.Sprintf("%s for Order %s - %s", prefix, invoice.Order.OrderID, invoice.Settings.CompanyName)
}

type emailView struct {
	CustomerName  string
	OrderID       string
	InvoiceNumber string
	Paid          bool
	Items         []emailItem
	Total         string
	CompanyName   string
	FooterText    string
	PrimaryColor  string
}

type emailItem struct {
	Name     string
	Quantity int
	Total    string
}

func newEmailView(invoice domain.Invoice) emailView {
	items := make([]emailItem, len(invoice.Order.Items))
	for i, item := range invoice.Order.Items {
		total, _ := item.LineTotal().Float64()
		items[i] = emailItem{Name: item.ProductName, Quantity: item.Quantity, Total: commons.FormatPrice(total)}
	}

	return emailView{
		CustomerName:  invoice.Order.CustomerName,
		OrderID:       invoice.Order.OrderID,
		InvoiceNumber: invoice.Number,
		Paid:          invoice.Paid(),
		Items:         items,
		Total:         commons.FormatPrice(invoice.Order.Total),
		CompanyName:   invoice.Settings.CompanyName,
		FooterText:    invoice.Settings.FooterText,
		PrimaryColor:  invoice.Settings.PrimaryColor,
	}
}

func composeInvoiceEmail(invoice domain.Invoice) (mailer.Message, error) {
	view := newEmailView(invoice)

	var html bytes.Buffer
	if err := invoiceHTML.Execute(&html, view); err != nil {
		return mailer.Message{}, fmt.Errorf("rendering invoice email: %w", err)
	}

	return mailer.Message{
		To:      invoice.Order.CustomerEmail,
		Subject: invoiceSubject(invoice),
		Text:    invoiceText(view),
		HTML:    html.String(),
		Attachments: []mailer.Attachment{{
			Name:        invoice.FileName(),
			ContentType: "application/pdf",
			Data:        invoice.PDF,
		}},
	}, nil
}

func invoiceText(v emailView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", v.CustomerName)
	if v.Paid {
		fmt.Fprintf(&b, "Thank you for your order %s. Your payment has been received.\n\n", v.OrderID)
	} else {
		fmt.Fprintf(&b, "Here is the invoice for your order %s.\n\n", v.OrderID)
	}
	fmt.Fprintf(&b, "Invoice Number: %s\n", v.InvoiceNumber)
	for _, item := range v.Items {
		fmt.Fprintf(&b, "- %s x%d: %s\n", item.Name, item.Quantity, item.Total)
	}
	fmt.Fprintf(&b, "Total: %s\n\n", v.Total)
	b.WriteString("Your invoice is attached to this email.\n\n")
	if v.FooterText != "" {
		b.WriteString(v.FooterText + "\n")
	}
	b.WriteString(v.CompanyName + "\n")
	return b.String()
}

var invoiceHTML = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #212121;">
  <h2 style="color: {{.PrimaryColor}};">{{.CompanyName}}</h2>
  <p>Dear {{.CustomerName}},</p>
  {{if .Paid}}<p>Thank you for your order <strong>{{.OrderID}}</strong>. Your payment has been received.</p>
  {{else}}<p>Here is the invoice for your order <strong>{{.OrderID}}</strong>.</p>{{end}}
  <p>Invoice Number: {{.InvoiceNumber}}</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr style="background: {{.PrimaryColor}}; color: #ffffff;"><th align="left">Item</th><th>Quantity</th><th align="right">Total</th></tr>
    {{range .Items}}<tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.Total}}</td></tr>
    {{end}}
  </table>
  <p><strong>Total: {{.Total}}</strong></p>
  <p>Your invoice is attached to this email.</p>
  {{if .FooterText}}<p style="color: #646464;">{{.FooterText}}</p>{{end}}
</body>
</html>
`))
