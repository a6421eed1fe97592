package service

import (
	"context"

	"go.uber.org/zap"

	"wego/internal/domain"
)

type OrderFinder interface {
	FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*domain.InvoiceSettings, error)
}

type DocumentRenderer interface {
	Render(order domain.Order, settings domain.InvoiceSettings) ([]byte, error)
}

type InvoiceService struct {
	orders   OrderFinder
	settings SettingsReader
	renderer DocumentRenderer
	logger   *zap.Logger
}

func NewInvoiceService(orders OrderFinder, settings SettingsReader, renderer DocumentRenderer, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		orders:   orders,
		settings: settings,
		renderer: renderer,
		logger:   logger,
	}
}

// Render loads the order by its public order id and draws its invoice with
// the current settings.
func (s *InvoiceService) Render(ctx context.Context, orderID string) (*domain.Invoice, error) {
	order, err := s.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.Render(*order, *settings)
	if err != nil {
		s.logger.Error("failed to render invoice", zap.String("orderId", orderID), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("invoice rendered", zap.String("orderId", orderID), zap.Int("bytes", len(pdf)))

	return &domain.Invoice{
		Number:   settings.InvoiceNumber(order.OrderID),
		Order:    *order,
		Settings: *settings,
		PDF:      pdf,
	}, nil
}
