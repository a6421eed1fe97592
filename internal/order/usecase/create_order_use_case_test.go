package usecase

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

type mockTxRunner struct{}

func (m *mockTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return fn(ctx, nil)
}

type mockProductFinder struct {
	FindByIDsFunc func(ctx context.Context, ids []int) ([]domain.Product, error)
}

func (m *mockProductFinder) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	return m.FindByIDsFunc(ctx, ids)
}

// memoryOrderWriter stores inserted orders so FindByID can return them
type memoryOrderWriter struct {
	mu     sync.Mutex
	orders map[uint]domain.Order
	nextID uint
	err    error
}

func newMemoryOrderWriter() *memoryOrderWriter {
	return &memoryOrderWriter{orders: map[uint]domain.Order{}, nextID: 1}
}

func (m *memoryOrderWriter) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	order.ID = m.nextID
	m.nextID++
	m.orders[order.ID] = order
	return order.ID, nil
}

func (m *memoryOrderWriter) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Order not found")
	}
	return &o, nil
}

type mockSubscriberRegistrar struct {
	calls chan [2]string
	err   error
}

func newMockSubscriberRegistrar(err error) *mockSubscriberRegistrar {
	return &mockSubscriberRegistrar{calls: make(chan [2]string, 1), err: err}
}

func (m *mockSubscriberRegistrar) RegisterFromOrder(ctx context.Context, email, name string) error {
	m.calls <- [2]string{email, name}
	return m.err
}

func catalog(products ...domain.Product) *mockProductFinder {
	return &mockProductFinder{
		FindByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			var found []domain.Product
			for _, id := range ids {
				for _, p := range products {
					if p.ID == id {
						found = append(found, p)
					}
				}
			}
			return found, nil
		},
	}
}

func draftOrder(items ...domain.LineItem) domain.Order {
	return domain.Order{
		CustomerName:  "Jane Doe",
		CustomerEmail: "Jane@Example.com",
		Items:         items,
		Status:        domain.OrderStatusCompleted,
	}
}

func TestCreateOrder_ProfitFromPurchasingPriceSnapshot(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Phone", PurchasingPrice: 600},
		{ID: 2, Name: "Case", PurchasingPrice: 500},
	}
	writer := newMemoryOrderWriter()
	subs := newMockSubscriberRegistrar(nil)

	uc := NewCreateOrderUseCase(&mockTxRunner{}, catalog(products...), writer, subs, zap.NewNop())

	order, err := uc.CreateOrder(context.Background(), draftOrder(
		domain.LineItem{ProductID: 1, Quantity: 2, Price: 1000},
		domain.LineItem{ProductID: 2, Quantity: 1, Price: 500},
	))
	require.NoError(t, err)

	assert.Equal(t, 800.0, order.Profit)
	assert.Equal(t, domain.OrderStatusPending, order.Status, "intake always starts Pending")
	assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"))
	require.NotNil(t, order.Items[0].PurchasingPrice)
	assert.Equal(t, 600.0, *order.Items[0].PurchasingPrice)
	assert.Equal(t, "Phone", order.Items[0].ProductName)
	assert.Equal(t, 2500.0, order.Subtotal)
	assert.Equal(t, 2500.0, order.Total)

	// Later catalog edits do not touch the stored snapshot
	products[0].PurchasingPrice = 999
	stored, err := writer.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 800.0, stored.Profit)
	assert.Equal(t, 600.0, *stored.Items[0].PurchasingPrice)
}

func TestCreateOrder_MissingProductIsProfitNeutral(t *testing.T) {
	uc := NewCreateOrderUseCase(&mockTxRunner{}, catalog(domain.Product{ID: 1, PurchasingPrice: 4}), newMemoryOrderWriter(), nil, zap.NewNop())

	order, err := uc.CreateOrder(context.Background(), draftOrder(
		domain.LineItem{ProductID: 1, ProductName: "Soap", Quantity: 3, Price: 10},
		domain.LineItem{ProductID: 77, ProductName: "Ghost", Quantity: 1, Price: 1000},
	))
	require.NoError(t, err)

	assert.Equal(t, 18.0, order.Profit)
	assert.Nil(t, order.Items[1].PurchasingPrice)
	assert.Equal(t, "Ghost", order.Items[1].ProductName)
}

func TestCreateOrder_TotalMustBalance(t *testing.T) {
	uc := NewCreateOrderUseCase(&mockTxRunner{}, catalog(), newMemoryOrderWriter(), nil, zap.NewNop())

	draft := draftOrder(domain.LineItem{ProductID: 1, Quantity: 1, Price: 100})
	draft.Subtotal = 100
	draft.Shipping = 20
	draft.Total = 150

	_, err := uc.CreateOrder(context.Background(), draft)

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "total", ve.Details[0].Field)
}

func TestCreateOrder_ProvidedAmountsKept(t *testing.T) {
	uc := NewCreateOrderUseCase(&mockTxRunner{}, catalog(), newMemoryOrderWriter(), nil, zap.NewNop())

	draft := draftOrder(domain.LineItem{ProductID: 1, Quantity: 1, Price: 100})
	draft.Subtotal = 100
	draft.Shipping = 20
	draft.Tax = 5
	draft.Total = 125

	order, err := uc.CreateOrder(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, 125.0, order.Total)
}

func TestCreateOrder_RegistersSubscriberInBackground(t *testing.T) {
	subs := newMockSubscriberRegistrar(errors.New("mongo down"))
	uc := NewCreateOrderUseCase(&mockTxRunner{}, catalog(), newMemoryOrderWriter(), subs, zap.NewNop())

	_, err := uc.CreateOrder(context.Background(), draftOrder(domain.LineItem{ProductID: 1, Quantity: 1, Price: 10}))
	require.NoError(t, err, "subscriber failure must not fail intake")

	select {
	case call := <-subs.calls:
		assert.Equal(t, "Jane@Example.com", call[0])
		assert.Equal(t, "Jane Doe", call[1])
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber registration was not attempted")
	}
}

func TestCreateOrder_StoreFailure(t *testing.T) {
	writer := newMemoryOrderWriter()
	writer.err = errors.New("duplicate entry")
	subs := newMockSubscriberRegistrar(nil)

	uc := NewCreateOrderUseCase(&mockTxRunner{}, catalog(), writer, subs, zap.NewNop())

	_, err := uc.CreateOrder(context.Background(), draftOrder(domain.LineItem{ProductID: 1, Quantity: 1, Price: 10}))
	assert.Error(t, err)

	select {
	case <-subs.calls:
		t.Fatal("subscriber must not be registered when the order was not stored")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCreateOrder_CatalogLookupFailure(t *testing.T) {
	finder := &mockProductFinder{
		FindByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			return nil, errors.New("catalog unavailable")
		},
	}

	uc := NewCreateOrderUseCase(&mockTxRunner{}, finder, newMemoryOrderWriter(), nil, zap.NewNop())

	_, err := uc.CreateOrder(context.Background(), draftOrder(domain.LineItem{ProductID: 1, Quantity: 1, Price: 10}))
	assert.EqualError(t, err, "catalog unavailable")
}
