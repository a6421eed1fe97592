package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

type stubOrders map[string]domain.Order

func (s stubOrders) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	o, ok := s[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError("Order not found")
	}
	return &o, nil
}

type stubSettings struct {
	settings domain.InvoiceSettings
	err      error
}

func (s stubSettings) Get(ctx context.Context) (*domain.InvoiceSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.settings, nil
}

type recordingRenderer struct {
	order    domain.Order
	settings domain.InvoiceSettings
}

func (r *recordingRenderer) Render(order domain.Order, settings domain.InvoiceSettings) ([]byte, error) {
	r.order = order
	r.settings = settings
	return []byte("%PDF-1.3"), nil
}

func TestRender_BuildsInvoice(t *testing.T) {
	settings := domain.DefaultInvoiceSettings()
	settings.InvoicePrefix = "KG"
	renderer := &recordingRenderer{}

	svc := NewInvoiceService(
		stubOrders{"ORD-1": {OrderID: "ORD-1", Status: domain.OrderStatusCompleted}},
		stubSettings{settings: settings},
		renderer,
		zap.NewNop(),
	)

	invoice, err := svc.Render(context.Background(), "ORD-1")
	require.NoError(t, err)

	assert.Equal(t, "KG-ORD-1", invoice.Number)
	assert.Equal(t, "invoice-ORD-1.pdf", invoice.FileName())
	assert.True(t, invoice.Paid())
	assert.Equal(t, []byte("%PDF-1.3"), invoice.PDF)
	assert.Equal(t, "ORD-1", renderer.order.OrderID)
	assert.Equal(t, "KG", renderer.settings.InvoicePrefix)
}

func TestRender_MissingOrder(t *testing.T) {
	svc := NewInvoiceService(stubOrders{}, stubSettings{}, &recordingRenderer{}, zap.NewNop())

	_, err := svc.Render(context.Background(), "ORD-404")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestRender_SettingsUnavailable(t *testing.T) {
	svc := NewInvoiceService(
		stubOrders{"ORD-1": {OrderID: "ORD-1"}},
		stubSettings{err: errors.New("connection refused")},
		&recordingRenderer{},
		zap.NewNop(),
	)

	_, err := svc.Render(context.Background(), "ORD-1")
	assert.EqualError(t, err, "connection refused")
}
