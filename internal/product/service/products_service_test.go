package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wego/internal/domain"
)

type mockRepository struct {
	FindByIDsFunc func(ctx context.Context, ids []int) ([]domain.Product, error)
	calls         int
}

func (m *mockRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	m.calls++
	return m.FindByIDsFunc(ctx, ids)
}

func TestResolveProducts_KeepsRequestOrderAndReportsMissing(t *testing.T) {
	repo := &mockRepository{
		FindByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			assert.Equal(t, []int{3, 1, 9}, ids)
			return []domain.Product{{ID: 1, Name: "Phone"}, {ID: 3, Name: "Case"}}, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	products, notFound, err := svc.ResolveProducts(context.Background(), []int{3, 1, 3, 9})
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "Case", products[0].Name)
	assert.Equal(t, "Phone", products[1].Name)
	assert.Equal(t, []int{9}, notFound)
}

func TestResolveProducts_EmptySkipsQuery(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, zap.NewNop())

	products, notFound, err := svc.ResolveProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Empty(t, notFound)
	assert.Equal(t, 0, repo.calls)
}

func TestResolveProducts_RepositoryError(t *testing.T) {
	repo := &mockRepository{
		FindByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := NewService(repo, zap.NewNop())

	_, _, err := svc.ResolveProducts(context.Background(), []int{1})
	assert.EqualError(t, err, "connection reset")
}
