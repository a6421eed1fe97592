package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"wego/internal/commons"
	"wego/internal/domain"
)

const (
	pageMargin   = 15.0
	contentWidth = 180.0
	lineHeight   = 6.0

	colItem     = 95.0
	colQuantity = 25.0
	colPrice    = 30.0
	colTotal    = 30.0
)

type rgb struct {
	r, g, b int
}

var (
	defaultColor = rgb{220, 38, 38}
	mutedColor   = rgb{100, 100, 100}
	textColor    = rgb{33, 33, 33}
)

// InvoiceRenderer draws A4 invoices.
type InvoiceRenderer struct{}

func NewInvoiceRenderer() *InvoiceRenderer {
	return &InvoiceRenderer{}
}

func (InvoiceRenderer) Render(order domain.Order, settings domain.InvoiceSettings) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetTitle("Invoice "+order.OrderID, true)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")
	primary := parseHexColor(settings.PrimaryColor)

	writeHeader(doc, tr, settings, primary)
	writeInvoiceMeta(doc, tr, order, settings, primary)
	writeBillTo(doc, tr, order)
	writeItems(doc, tr, order.Items, primary)
	writeTotals(doc, order, primary)
	writeFooter(doc, tr, settings)

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("drawing invoice: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(doc *fpdf.Fpdf, tr func(string) string, settings domain.InvoiceSettings, primary rgb) {
	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(primary.r, primary.g, primary.b)
	doc.CellFormat(contentWidth/2, 10, tr(settings.CompanyName), "", 0, "L", false, 0, "")
	doc.CellFormat(contentWidth/2, 10, "INVOICE", "", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(mutedColor.r, mutedColor.g, mutedColor.b)
	for _, line := range []string{settings.CompanyAddress, settings.CompanyPhone, settings.CompanyEmail} {
		if line == "" {
			continue
		}
		doc.CellFormat(contentWidth, 5, tr(line), "", 1, "L", false, 0, "")
	}

	doc.Ln(4)
	doc.SetDrawColor(primary.r, primary.g, primary.b)
	doc.SetLineWidth(0.6)
	y := doc.GetY()
	doc.Line(pageMargin, y, pageMargin+contentWidth, y)
	doc.Ln(6)
}

func writeInvoiceMeta(doc *fpdf.Fpdf, tr func(string) string, order domain.Order, settings domain.InvoiceSettings, primary rgb) {
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(textColor.r, textColor.g, textColor.b)

	doc.CellFormat(contentWidth, lineHeight, tr("Invoice Number: "+settings.InvoiceNumber(order.OrderID)), "", 1, "L", false, 0, "")
	doc.CellFormat(contentWidth, lineHeight, "Date: "+order.CreatedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")

	if order.Status == domain.OrderStatusCompleted {
		doc.SetFont("Helvetica", "B", 10)
		doc.SetTextColor(22, 163, 74)
		doc.CellFormat(contentWidth, lineHeight, "Status: PAID", "", 1, "L", false, 0, "")
		doc.SetTextColor(textColor.r, textColor.g, textColor.b)
	}
	doc.Ln(4)
}

func writeBillTo(doc *fpdf.Fpdf, tr func(string) string, order domain.Order) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(contentWidth, lineHeight, "Bill To", "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	lines := []string{order.CustomerName, order.CustomerEmail}
	for _, opt := range []*string{order.CustomerPhone, order.CustomerAddress, order.DeliveryLocation} {
		if opt != nil && strings.TrimSpace(*opt) != "" {
			lines = append(lines, *opt)
		}
	}
	for _, line := range lines {
		doc.CellFormat(contentWidth, 5, tr(line), "", 1, "L", false, 0, "")
	}
	doc.Ln(6)
}

func writeItems(doc *fpdf.Fpdf, tr func(string) string, items []domain.LineItem, primary rgb) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(primary.r, primary.g, primary.b)
	doc.SetTextColor(255, 255, 255)
	doc.CellFormat(colItem, 8, "Item", "", 0, "L", true, 0, "")
	doc.CellFormat(colQuantity, 8, "Quantity", "", 0, "C", true, 0, "")
	doc.CellFormat(colPrice, 8, "Price", "", 0, "R", true, 0, "")
	doc.CellFormat(colTotal, 8, "Total", "", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(textColor.r, textColor.g, textColor.b)
	doc.SetFillColor(245, 245, 245)
	for i, item := range items {
		fill := i%2 == 1
		lineTotal, _ := item.LineTotal().Float64()
		doc.CellFormat(colItem, 7, tr(item.ProductName), "B", 0, "L", fill, 0, "")
		doc.CellFormat(colQuantity, 7, strconv.Itoa(item.Quantity), "B", 0, "C", fill, 0, "")
		doc.CellFormat(colPrice, 7, commons.FormatPrice(item.Price), "B", 0, "R", fill, 0, "")
		doc.CellFormat(colTotal, 7, commons.FormatPrice(lineTotal), "B", 1, "R", fill, 0, "")
	}
	doc.Ln(4)
}

func writeTotals(doc *fpdf.Fpdf, order domain.Order, primary rgb) {
	labelWidth := colPrice
	offset := contentWidth - labelWidth - colTotal

	row := func(label string, amount float64) {
		doc.SetX(pageMargin + offset)
		doc.CellFormat(labelWidth, lineHeight, label, "", 0, "L", false, 0, "")
		doc.CellFormat(colTotal, lineHeight, commons.FormatPrice(amount), "", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "", 10)
	row("Subtotal:", order.Subtotal)
	if order.Shipping > 0 {
		row("Shipping:", order.Shipping)
	}
	if order.Tax > 0 {
		row("Tax:", order.Tax)
	}

	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(primary.r, primary.g, primary.b)
	row("Total:", order.Total)
	doc.SetTextColor(textColor.r, textColor.g, textColor.b)
}

func writeFooter(doc *fpdf.Fpdf, tr func(string) string, settings domain.InvoiceSettings) {
	if settings.FooterText == "" {
		return
	}
	doc.Ln(12)
	doc.SetFont("Helvetica", "I", 9)
	doc.SetTextColor(mutedColor.r, mutedColor.g, mutedColor.b)
	doc.MultiCell(contentWidth, 5, tr(settings.FooterText), "", "C", false)
}

// parseHexColor accepts #RRGGBB and falls back to the brand red.
func parseHexColor(hex string) rgb {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return defaultColor
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return defaultColor
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}
