package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wego/internal/domain"
	"wego/internal/infrastructure/mysql"
	orderrepo "wego/internal/order/repository"
	productrepo "wego/internal/product/repository"
	"wego/internal/testutil"
)

// Integration Tests

func newMySQLFulfillment(t *testing.T) (*sql.DB, *FulfillmentService, *orderrepo.MySQLOrderRepository, *productrepo.MySQLRepository) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	orders := orderrepo.NewMySQLOrderRepository(db)
	products := productrepo.NewMySQLRepository(db)
	svc := NewFulfillmentService(mysql.NewTransactor(db, 5*time.Second), products, orders, zap.NewNop())
	return db, svc, orders, products
}

func storeOrder(t *testing.T, svc *FulfillmentService, orders *orderrepo.MySQLOrderRepository, order domain.Order) uint {
	var id uint
	err := svc.tx.WithinTx(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		var err error
		id, err = orders.Insert(ctx, tx, order)
		return err
	})
	require.NoError(t, err)
	return id
}

func TestFulfillment_MySQLCompletionDecrementsOnce(t *testing.T) {
	db, svc, orders, products := newMySQLFulfillment(t)
	ctx := context.Background()

	phone := testutil.InsertProduct(t, db, "Phone", 5, 1000, 600)
	cable := testutil.InsertProduct(t, db, "Cable", 1, 50, 10)

	id := storeOrder(t, svc, orders, domain.Order{
		OrderID:       "ORD-FULFIL01",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Items: []domain.LineItem{
			{ProductID: phone, ProductName: "Phone", Quantity: 2, Price: 1000},
			{ProductID: cable, ProductName: "Cable", Quantity: 3, Price: 50},
		},
		Subtotal: 2150,
		Total:    2150,
		Status:   domain.OrderStatusPending,
	})

	result, err := svc.TransitionStatus(ctx, id, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, []string{"Cable"}, result.DepletedProducts)

	// A second completion is a no-op for stock
	again, err := svc.TransitionStatus(ctx, id, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.False(t, again.Completed)

	p, err := products.FindByID(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	c, err := products.FindByID(ctx, cable)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Stock, "stock is floored at zero")

	stored, err := orders.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, stored.Status)
	assert.True(t, result.Order.UpdatedAt.Equal(stored.UpdatedAt))
}

func TestFulfillment_MySQLConcurrentCompletionsApplyStockOnce(t *testing.T) {
	db, svc, orders, products := newMySQLFulfillment(t)
	ctx := context.Background()

	lamp := testutil.InsertProduct(t, db, "Lamp", 10, 80, 40)
	id := storeOrder(t, svc, orders, domain.Order{
		OrderID:       "ORD-RACE0001",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Items:         []domain.LineItem{{ProductID: lamp, ProductName: "Lamp", Quantity: 4, Price: 80}},
		Subtotal:      320,
		Total:         320,
		Status:        domain.OrderStatusPending,
	})

	const workers = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.TransitionStatus(ctx, id, domain.OrderStatusCompleted)
			if !assert.NoError(t, err) {
				return
			}
			if result.Completed {
				mu.Lock()
				completed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, completed, "only one transaction sees the edge into Completed")

	p, err := products.FindByID(ctx, lamp)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)
}
