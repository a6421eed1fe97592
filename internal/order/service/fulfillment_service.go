package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"go.uber.org/zap"

	"wego/internal/domain"
	"wego/internal/dto"
	apperrors "wego/internal/errors"
)

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int) (*domain.Product, error)
	UpdateStock(ctx context.Context, tx *sql.Tx, id int, stock int) error
}

type OrderRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string, at time.Time) error
}

type FulfillmentService struct {
	tx          TxRunner
	productRepo ProductRepository
	orderRepo   OrderRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewFulfillmentService(
	tx TxRunner,
	productRepo ProductRepository,
	orderRepo OrderRepository,
	logger *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		tx:          tx,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// TransitionStatus persists the new status and, when the order enters
// Completed from any other status, decrements stock for every line item.
// The order row and each product row stay locked until commit, so two
// concurrent completions cannot both apply the decrement.
func (s *FulfillmentService) TransitionStatus(ctx context.Context, orderID uint, status string) (*dto.TransitionResult, error) {
	var result *dto.TransitionResult

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Bloque 1: Lock order and persist status
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		previous := order.Status
		updatedAt := s.now().UTC().Truncate(time.Millisecond)
		if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, status, updatedAt); err != nil {
			s.logger.Error("failed to update order status", zap.Uint("orderId", orderID), zap.Error(err))
			return err
		}
		order.Status = status
		order.UpdatedAt = updatedAt

		r := &dto.TransitionResult{
			Order:            order,
			PreviousStatus:   previous,
			DepletedProducts: []string{},
		}

		// Bloque 2: Stock decrement only on the edge into Completed
		if domain.IsCompletionEdge(previous, status) {
			depleted, err := s.decrementStock(ctx, tx, order)
			if err != nil {
				return err
			}
			r.Completed = true
			r.DepletedProducts = depleted
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.Uint("orderId", orderID),
		zap.String("from", result.PreviousStatus),
		zap.String("to", status),
		zap.Bool("stockApplied", result.Completed),
		zap.Int("depletedCount", len(result.DepletedProducts)),
	)

	return result, nil
}

type stockLine struct {
	productID int
	quantity  int
}

func (s *FulfillmentService) decrementStock(ctx context.Context, tx *sql.Tx, order *domain.Order) ([]string, error) {
	// Repeated products are merged and rows are locked in ascending id
	// order (anti-deadlock).
	quantities := make(map[int]int)
	for _, item := range order.Items {
		quantities[item.ProductID] += item.Quantity
	}
	lines := make([]stockLine, 0, len(quantities))
	for id, qty := range quantities {
		lines = append(lines, stockLine{productID: id, quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].productID < lines[j].productID })

	depleted := []string{}
	for _, line := range lines {
		product, err := s.productRepo.FindByIDForUpdate(ctx, tx, line.productID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				s.logger.Warn("product not found, stock left unchanged", zap.Uint("orderId", order.ID), zap.Int("productId", line.productID))
				continue
			}
			return nil, err
		}

		newStock, crossedToZero := product.DecrementStock(line.quantity)
		if err := s.productRepo.UpdateStock(ctx, tx, product.ID, newStock); err != nil {
			s.logger.Error("failed to update stock", zap.Uint("orderId", order.ID), zap.Int("productId", product.ID), zap.Error(err))
			return nil, err
		}

		s.logger.Info("stock decremented",
			zap.Uint("orderId", order.ID),
			zap.Int("productId", product.ID),
			zap.Int("previousStock", product.Stock),
			zap.Int("newStock", newStock),
		)

		if crossedToZero {
			depleted = append(depleted, product.Name)
		}
	}

	return depleted, nil
}
