package domain

import "time"

type InvoiceSettings struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	Logo           string
	InvoicePrefix  string
	FooterText     string
	PrimaryColor   string
	ShowLogo       bool
	UpdatedAt      time.Time
}

func DefaultInvoiceSettings() InvoiceSettings {
	return InvoiceSettings{
		CompanyName:   "Wego Connect",
		InvoicePrefix: "INV",
		FooterText:    "Thank you for your business!",
		PrimaryColor:  "#DC2626",
		ShowLogo:      true,
	}
}

func (s InvoiceSettings) InvoiceNumber(orderID string) string {
	return s.InvoicePrefix + "-" + orderID
}

// Invoice is a rendered invoice document for one order.
type Invoice struct {
	Number   string
	Order    Order
	Settings InvoiceSettings
	PDF      []byte
}

func (i Invoice) FileName() string {
	return "invoice-" + i.Order.OrderID + ".pdf"
}

func (i Invoice) Paid() bool {
	return i.Order.Status == OrderStatusCompleted
}
