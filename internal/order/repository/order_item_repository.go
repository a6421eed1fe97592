package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"wego/internal/domain"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

// InsertBatch stores items in their given order.
func (r *MySQLOrderItemRepository) InsertBatch(ctx context.Context, tx *sql.Tx, orderID uint, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	placeholders := make([]string, len(items))
	args := make([]any, 0, len(items)*7)
	for i, item := range items {
		placeholders[i] = "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, orderID, i, item.ProductID, item.ProductName, item.Quantity, item.Price, item.PurchasingPrice)
	}

	query := `INSERT INTO OrderItems (orderId, position, productId, productName, quantity, price, purchasingPrice) VALUES ` +
		strings.Join(placeholders, ", ")

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting order items: %w", err)
	}
	return nil
}

// FindByOrderIDs groups items per order id, each group in insertion order.
func (r *MySQLOrderItemRepository) FindByOrderIDs(ctx context.Context, q queryer, orderIDs []uint) (map[uint][]domain.LineItem, error) {
	result := make(map[uint][]domain.LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, orderId, productId, productName, quantity, price, purchasingPrice
		FROM OrderItems
		WHERE orderId IN (%s)
		ORDER BY orderId, position`,
		strings.Join(placeholders, ", "),
	)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.PurchasingPrice,
		); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return result, nil
}
