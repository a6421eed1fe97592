package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wego/internal/domain"
)

const (
	dayLayout   = "%Y-%m-%d"
	monthLayout = "%Y-%m"
)

type MySQLStatsRepository struct {
	db *sql.DB
}

func NewMySQLStatsRepository(db *sql.DB) *MySQLStatsRepository {
	return &MySQLStatsRepository{db: db}
}

// Totals returns the completed revenue, the order count, the active product
// count and the number of distinct customer emails.
func (r *MySQLStatsRepository) Totals(ctx context.Context) (revenue float64, orders, products, customers int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = ? THEN total ELSE 0 END), 0),
			COUNT(*),
			COUNT(DISTINCT customerEmail)
		FROM Orders`, domain.OrderStatusCompleted,
	).Scan(&revenue, &orders, &customers)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("querying order totals: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Product WHERE isActive = 1`).Scan(&products)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("counting products: %w", err)
	}

	return revenue, orders, products, customers, nil
}

// ProfitSince sums the persisted profit of completed orders created at or
// after from. A zero from covers every order.
func (r *MySQLStatsRepository) ProfitSince(ctx context.Context, from time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(profit), 0) FROM Orders WHERE status = ?`
	args := []any{domain.OrderStatusCompleted}
	if !from.IsZero() {
		query += ` AND createdAt >= ?`
		args = append(args, from)
	}

	var profit float64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&profit)
	if err != nil {
		return 0, fmt.Errorf("querying profit: %w", err)
	}
	return profit, nil
}

func (r *MySQLStatsRepository) DailyProfit(ctx context.Context, from time.Time) ([]domain.ProfitBucket, error) {
	return r.profitBuckets(ctx, dayLayout, from)
}

func (r *MySQLStatsRepository) MonthlyProfit(ctx context.Context, from time.Time) ([]domain.ProfitBucket, error) {
	return r.profitBuckets(ctx, monthLayout, from)
}

func (r *MySQLStatsRepository) profitBuckets(ctx context.Context, layout string, from time.Time) ([]domain.ProfitBucket, error) {
	if from.IsZero() {
		from = time.Unix(0, 0).UTC()
	}

	// layout is one of the two package constants, never caller input
	rows, err := r.db.QueryContext(ctx, `
		SELECT DATE_FORMAT(createdAt, '`+layout+`') AS period, COALESCE(SUM(profit), 0)
		FROM Orders
		WHERE status = ? AND createdAt >= ?
		GROUP BY period
		ORDER BY period`,
		domain.OrderStatusCompleted, from,
	)
	if err != nil {
		return nil, fmt.Errorf("querying profit buckets: %w", err)
	}
	defer rows.Close()

	buckets := []domain.ProfitBucket{}
	for rows.Next() {
		var b domain.ProfitBucket
		if err := rows.Scan(&b.Period, &b.Profit); err != nil {
			return nil, fmt.Errorf("scanning profit bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profit buckets: %w", err)
	}

	return buckets, nil
}

func (r *MySQLStatsRepository) OutOfStockProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, image, stock
		FROM Product
		WHERE isActive = 1 AND stock = 0
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying out of stock products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Image, &p.Stock); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}
