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

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now`, escapeLike("50% off_now"))
}

// Integration Tests

func TestRepository_InsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	discount := 900.0
	id, err := repo.Insert(ctx, domain.Product{
		Name:            "Phone",
		Description:     "Smartphone",
		Price:           1000,
		PurchasingPrice: 600,
		DiscountPrice:   &discount,
		Image:           "a.jpg",
		Images:          []string{"a.jpg", "b.jpg"},
		Category:        "Electronics",
		Stock:           5,
		IsActive:        true,
	})
	require.NoError(t, err)

	p, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Phone", p.Name)
	assert.Equal(t, 600.0, p.PurchasingPrice)
	require.NotNil(t, p.DiscountPrice)
	assert.Equal(t, 900.0, *p.DiscountPrice)
	assert.Nil(t, p.MonthlyPrice)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, 5, p.Stock)
	assert.True(t, p.IsActive)
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	p, err := repo.FindByID(context.Background(), 999999)
	assert.Nil(t, p)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestRepository_FindByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	id1 := testutil.InsertProduct(t, db, "Product 1", 10, 10, 5)
	id2 := testutil.InsertProduct(t, db, "Product 2", 0, 20, 15)

	products, err := repo.FindByIDs(context.Background(), []int{id1, id2, 999999})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	empty, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_UpdateStockWithinTx(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()
	id := testutil.InsertProduct(t, db, "Lamp", 3, 50, 20)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	locked, err := repo.FindByIDForUpdate(ctx, tx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, locked.Stock)

	require.NoError(t, repo.UpdateStock(ctx, tx, id, 0))
	require.NoError(t, tx.Commit())

	p, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestRepository_ListWithFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO Product (name, description, price, category, stock, isActive)
		VALUES ('Red Shirt', 'cotton', 10, 'Clothing', 1, 1),
		       ('Blue Shirt', 'linen', 12, 'Clothing', 1, 0),
		       ('Radio', 'plays red hits', 30, 'Electronics', 1, 1)
	`)
	require.NoError(t, err)

	clothing, err := repo.List(ctx, domain.ProductFilter{Category: "Clothing"})
	require.NoError(t, err)
	assert.Len(t, clothing, 2)

	all, err := repo.List(ctx, domain.ProductFilter{Category: "All"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active := true
	red, err := repo.List(ctx, domain.ProductFilter{Search: "red", IsActive: &active})
	require.NoError(t, err)
	assert.Len(t, red, 2)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Clothing", "Electronics"}, categories)
}

func TestRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	id := testutil.InsertProduct(t, db, "Old", 1, 1, 1)

	require.NoError(t, repo.Delete(context.Background(), id))

	err := repo.Delete(context.Background(), id)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
