package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

const orderColumns = `id, orderId, customerName, customerEmail, customerPhone, customerAddress,
	deliveryLocation, notes, subtotal, shipping, tax, total, profit, status, createdAt, updatedAt`

type MySQLOrderRepository struct {
	db    *sql.DB
	items *MySQLOrderItemRepository
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{
		db:    db,
		items: NewMySQLOrderItemRepository(db),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.OrderID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.CustomerAddress,
		&o.DeliveryLocation, &o.Notes, &o.Subtotal, &o.Shipping, &o.Tax, &o.Total, &o.Profit,
		&o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Insert stores the order header and its items inside tx.
func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO Orders (orderId, customerName, customerEmail, customerPhone, customerAddress,
		                    deliveryLocation, notes, subtotal, shipping, tax, total, profit, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.OrderID, order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.CustomerAddress,
		order.DeliveryLocation, order.Notes, order.Subtotal, order.Shipping, order.Tax, order.Total,
		order.Profit, order.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading order id: %w", err)
	}

	if err := r.items.InsertBatch(ctx, tx, uint(id), order.Items); err != nil {
		return 0, err
	}

	return uint(id), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM Orders WHERE id = ?`, id)
	return r.loadOne(ctx, r.db, row)
}

func (r *MySQLOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM Orders WHERE orderId = ?`, orderID)
	return r.loadOne(ctx, r.db, row)
}

// FindByIDForUpdate locks the order row until tx ends.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM Orders WHERE id = ? FOR UPDATE`, id)
	return r.loadOne(ctx, tx, row)
}

func (r *MySQLOrderRepository) loadOne(ctx context.Context, q queryer, row *sql.Row) (*domain.Order, error) {
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Order not found")
		}
		return nil, fmt.Errorf("querying order: %w", err)
	}

	items, err := r.items.FindByOrderIDs(ctx, q, []uint{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsOrEmpty(items[order.ID])

	return order, nil
}

// List returns orders newest first. Status "All" disables the status filter.
func (r *MySQLOrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var conditions []string
	var args []any

	if filter.Status != "" && filter.Status != "All" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(orderId LIKE ? OR customerName LIKE ? OR customerEmail LIKE ?)")
		pattern := "%" + escapeLike(filter.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query := `SELECT ` + orderColumns + ` FROM Orders`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY createdAt DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	ids := []uint{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	items, err := r.items.FindByOrderIDs(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsOrEmpty(items[orders[i].ID])
	}

	return orders, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `UPDATE Orders SET status = ?, updatedAt = ? WHERE id = ?`, status, at, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return nil
}

// Replace overwrites the customer fields, amounts and status. Items and
// profit are left untouched.
func (r *MySQLOrderRepository) Replace(ctx context.Context, order domain.Order) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE Orders
		SET customerName = ?, customerEmail = ?, customerPhone = ?, customerAddress = ?,
		    deliveryLocation = ?, notes = ?, subtotal = ?, shipping = ?, tax = ?, total = ?, status = ?
		WHERE id = ?`,
		order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.CustomerAddress,
		order.DeliveryLocation, order.Notes, order.Subtotal, order.Shipping, order.Tax, order.Total,
		order.Status, order.ID,
	)
	if err != nil {
		return fmt.Errorf("replacing order: %w", err)
	}

	// Zero affected rows also means "no change" in MySQL.
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM Orders WHERE id = ?)`, order.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking order: %w", err)
	}
	if !exists {
		return apperrors.NewNotFoundError("Order not found")
	}
	return nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("Order not found")
	}
	return nil
}

func itemsOrEmpty(items []domain.LineItem) []domain.LineItem {
	if items == nil {
		return []domain.LineItem{}
	}
	return items
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
