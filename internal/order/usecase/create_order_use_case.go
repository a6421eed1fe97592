package usecase

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
}

type OrderWriter interface {
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
}

// SubscriberRegistrar adds a customer to the mailing list.
type SubscriberRegistrar interface {
	RegisterFromOrder(ctx context.Context, email, name string) error
}

const subscriberRegistrationTimeout = 10 * time.Second

type CreateOrderUseCase struct {
	tx          TxRunner
	products    ProductFinder
	orders      OrderWriter
	subscribers SubscriberRegistrar
	logger      *zap.Logger
	now         func() time.Time
}

func NewCreateOrderUseCase(
	tx TxRunner,
	products ProductFinder,
	orders OrderWriter,
	subscribers SubscriberRegistrar,
	logger *zap.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		tx:          tx,
		products:    products,
		orders:      orders,
		subscribers: subscribers,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateOrder persists draft as a new Pending order. Every line item gets the
// purchasing price its product has right now; profit is derived from those
// snapshots. Stock is not touched.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, draft domain.Order) (*domain.Order, error) {
	order := draft
	order.ID = 0
	order.Status = domain.OrderStatusPending
	order.OrderID = domain.NewOrderID(uc.now())

	items, err := uc.snapshotPurchasingPrices(ctx, draft.Items)
	if err != nil {
		return nil, err
	}
	order.Items = items
	order.Profit = domain.CalculateProfit(items)

	if err := applyAmounts(&order); err != nil {
		return nil, err
	}

	var id uint
	err = uc.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		id, err = uc.orders.Insert(ctx, tx, order)
		return err
	})
	if err != nil {
		uc.logger.Error("failed to create order", zap.String("orderId", order.OrderID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("order created",
		zap.Uint("id", id),
		zap.String("orderId", order.OrderID),
		zap.Int("itemCount", len(order.Items)),
		zap.Float64("total", order.Total),
		zap.Float64("profit", order.Profit),
	)

	uc.registerSubscriber(ctx, order.CustomerEmail, order.CustomerName)

	created, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *CreateOrderUseCase) snapshotPurchasingPrices(ctx context.Context, items []domain.LineItem) ([]domain.LineItem, error) {
	ids := (domain.Order{Items: items}).ProductIDs()
	products, err := uc.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	enriched := make([]domain.LineItem, len(items))
	for i, item := range items {
		enriched[i] = item
		product, ok := byID[item.ProductID]
		if !ok {
			uc.logger.Warn("product not found, line recorded without purchasing price", zap.Int("productId", item.ProductID))
			continue
		}
		purchasing := product.PurchasingPrice
		enriched[i].PurchasingPrice = &purchasing
		if enriched[i].ProductName == "" {
			enriched[i].ProductName = product.Name
		}
	}

	return enriched, nil
}

// applyAmounts fills omitted subtotal and total and checks that
// total == subtotal + shipping + tax.
func applyAmounts(order *domain.Order) error {
	if order.Subtotal == 0 {
		order.Subtotal = domain.CalculateSubtotal(order.Items)
	}
	if order.Total == 0 {
		order.Total = order.Subtotal + order.Shipping + order.Tax
		return nil
	}
	if !domain.AmountsBalance(order.Subtotal, order.Shipping, order.Tax, order.Total) {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "total",
			Message: "total must equal subtotal + shipping + tax",
		})
	}
	return nil
}

// registerSubscriber runs detached from the request. Its failure never
// reaches the caller.
func (uc *CreateOrderUseCase) registerSubscriber(ctx context.Context, email, name string) {
	if uc.subscribers == nil || email == "" {
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), subscriberRegistrationTimeout)
		defer cancel()

		if err := uc.subscribers.RegisterFromOrder(bgCtx, email, name); err != nil {
			uc.logger.Warn("failed to register customer as subscriber", zap.String("email", email), zap.Error(err))
		}
	}()
}
