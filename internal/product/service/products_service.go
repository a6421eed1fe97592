package service

import (
	"context"

	"go.uber.org/zap"

	"wego/internal/domain"
)

type Repository interface {
	FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
}

type ProductService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// ResolveProducts returns the products found for ids, in the order the ids
// were given, and the ids that do not exist. Duplicate ids resolve once.
func (s *ProductService) ResolveProducts(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	unique := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) == 0 {
		return []domain.Product{}, []int{}, nil
	}

	found, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[int]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	products := make([]domain.Product, 0, len(found))
	notFoundIDs := []int{}
	for _, id := range unique {
		p, ok := byID[id]
		if !ok {
			notFoundIDs = append(notFoundIDs, id)
			continue
		}
		products = append(products, p)
	}

	if len(notFoundIDs) > 0 {
		s.logger.Warn("products not found", zap.Ints("productIds", notFoundIDs))
	}

	return products, notFoundIDs, nil
}
