package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

const productColumns = `id, name, description, price, purchasingPrice, discountPrice, monthlyPrice,
	image, images, category, stock, isActive, createdAt, updatedAt`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var description sql.NullString
	var images []byte

	err := row.Scan(
		&p.ID, &p.Name, &description, &p.Price, &p.PurchasingPrice,
		&p.DiscountPrice, &p.MonthlyPrice,
		&p.Image, &images, &p.Category, &p.Stock, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("decoding product images: %w", err)
		}
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	return &p, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM Product WHERE id = ?`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Product not found")
		}
		return nil, fmt.Errorf("querying product: %w", err)
	}
	return p, nil
}

// FindByIDForUpdate locks the product row until tx ends.
func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int) (*domain.Product, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM Product WHERE id = ? FOR UPDATE`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Product not found")
		}
		return nil, fmt.Errorf("locking product: %w", err)
	}
	return p, nil
}

func (r *MySQLRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT `+productColumns+` FROM Product WHERE id IN (%s)`, strings.Join(placeholders, ", "))

	return r.query(ctx, query, args...)
}

func (r *MySQLRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var conditions []string
	var args []any

	if filter.Category != "" && filter.Category != "All" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + escapeLike(filter.Search) + "%"
		args = append(args, pattern, pattern)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, "isActive = ?")
		args = append(args, *filter.IsActive)
	}

	query := `SELECT ` + productColumns + ` FROM Product`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY createdAt DESC, id DESC"

	return r.query(ctx, query, args...)
}

func (r *MySQLRepository) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, p domain.Product) (int, error) {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return 0, fmt.Errorf("encoding product images: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO Product (name, description, price, purchasingPrice, discountPrice, monthlyPrice,
		                     image, images, category, stock, isActive)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Price, p.PurchasingPrice, p.DiscountPrice, p.MonthlyPrice,
		p.Image, images, p.Category, p.Stock, p.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading product id: %w", err)
	}
	return int(id), nil
}

func (r *MySQLRepository) Update(ctx context.Context, p domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("encoding product images: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE Product
		SET name = ?, description = ?, price = ?, purchasingPrice = ?, discountPrice = ?, monthlyPrice = ?,
		    image = ?, images = ?, category = ?, stock = ?, isActive = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Price, p.PurchasingPrice, p.DiscountPrice, p.MonthlyPrice,
		p.Image, images, p.Category, p.Stock, p.IsActive, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

func (r *MySQLRepository) UpdateStock(ctx context.Context, tx *sql.Tx, id int, stock int) error {
	_, err := tx.ExecContext(ctx, `UPDATE Product SET stock = ? WHERE id = ?`, stock, id)
	if err != nil {
		return fmt.Errorf("updating product stock: %w", err)
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Product WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("Product not found")
	}
	return nil
}

// Categories lists the distinct non-empty categories of active products.
func (r *MySQLRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category
		FROM Product
		WHERE isActive = 1 AND category <> ''
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return categories, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
