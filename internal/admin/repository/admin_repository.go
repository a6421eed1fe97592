package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
	"wego/internal/infrastructure/mysql"
)

type MySQLAdminRepository struct {
	db *sql.DB
}

func NewMySQLAdminRepository(db *sql.DB) *MySQLAdminRepository {
	return &MySQLAdminRepository{db: db}
}

func (r *MySQLAdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, passwordHash, createdAt
		FROM Admins
		WHERE email = ?`, email,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Admin not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin: %w", err)
	}
	return &a, nil
}

// Insert fails with a ConflictError when the email is already registered.
func (r *MySQLAdminRepository) Insert(ctx context.Context, a domain.Admin) (uint, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO Admins (email, name, passwordHash)
		VALUES (?, ?, ?)`,
		a.Email, a.Name, a.PasswordHash,
	)
	if mysql.IsDuplicateKey(err) {
		return 0, apperrors.NewConflictError("Admin with this email already exists")
	}
	if err != nil {
		return 0, fmt.Errorf("inserting admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading admin id: %w", err)
	}
	return uint(id), nil
}
