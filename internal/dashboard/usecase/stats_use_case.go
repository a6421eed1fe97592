package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wego/internal/domain"
)

type StatsRepository interface {
	Totals(ctx context.Context) (revenue float64, orders, products, customers int, err error)
	ProfitSince(ctx context.Context, from time.Time) (float64, error)
	DailyProfit(ctx context.Context, from time.Time) ([]domain.ProfitBucket, error)
	MonthlyProfit(ctx context.Context, from time.Time) ([]domain.ProfitBucket, error)
	OutOfStockProducts(ctx context.Context) ([]domain.Product, error)
}

type OrderLister interface {
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type StatsUseCase struct {
	stats  StatsRepository
	orders OrderLister
	logger *zap.Logger
	now    func() time.Time
}

func NewStatsUseCase(stats StatsRepository, orders OrderLister, logger *zap.Logger) *StatsUseCase {
	return &StatsUseCase{
		stats:  stats,
		orders: orders,
		logger: logger,
		now:    time.Now,
	}
}

// Stats reads every figure from persisted order data. Profit is the stored
// snapshot of each completed order and is never derived from line items here.
func (uc *StatsUseCase) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	var err error

	// Bloque 1: Totales
	stats.TotalRevenue, stats.TotalOrders, stats.TotalProducts, stats.TotalCustomers, err = uc.stats.Totals(ctx)
	if err != nil {
		return nil, err
	}

	// Bloque 2: Ganancias por periodo
	windows := domain.NewProfitWindows(uc.now())

	periods := []struct {
		from time.Time
		dst  *float64
	}{
		{time.Time{}, &stats.Profit.Total},
		{windows.Today, &stats.Profit.Today},
		{windows.Month, &stats.Profit.ThisMonth},
		{windows.Year, &stats.Profit.ThisYear},
	}
	for _, p := range periods {
		if *p.dst, err = uc.stats.ProfitSince(ctx, p.from); err != nil {
			return nil, err
		}
	}

	if stats.Profit.Daily, err = uc.stats.DailyProfit(ctx, windows.DailyFrom); err != nil {
		return nil, err
	}
	if stats.Profit.Monthly, err = uc.stats.MonthlyProfit(ctx, windows.MonthlyFrom); err != nil {
		return nil, err
	}

	// Bloque 3: Pedidos recientes y sin stock
	if stats.RecentOrders, err = uc.orders.List(ctx, domain.OrderFilter{Limit: domain.RecentOrdersLimit}); err != nil {
		return nil, err
	}
	if stats.OutOfStockProducts, err = uc.stats.OutOfStockProducts(ctx); err != nil {
		return nil, err
	}

	uc.logger.Debug("dashboard stats computed",
		zap.Int("totalOrders", stats.TotalOrders),
		zap.Float64("totalProfit", stats.Profit.Total),
		zap.Int("outOfStock", len(stats.OutOfStockProducts)),
	)

	return &stats, nil
}
