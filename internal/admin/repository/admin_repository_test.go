package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
	"wego/internal/testutil"
)

// Unit Tests

func TestNewMySQLAdminRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLAdminRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestAdminRepository_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLAdminRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, domain.Admin{Email: "admin@example.com", Name: "Admin", PasswordHash: "$2a$10$hash"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	admin, err := repo.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, admin.ID)
	assert.Equal(t, "$2a$10$hash", admin.PasswordHash)
}

func TestAdminRepository_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLAdminRepository(db)
	ctx := context.Background()

	_, err := repo.Insert(ctx, domain.Admin{Email: "admin@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = repo.Insert(ctx, domain.Admin{Email: "admin@example.com", PasswordHash: "y"})
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestAdminRepository_FindMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	_, err := NewMySQLAdminRepository(db).FindByEmail(context.Background(), "nobody@example.com")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
