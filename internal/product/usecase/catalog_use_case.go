package usecase

import (
	"context"

	"go.uber.org/zap"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

type Repository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Insert(ctx context.Context, p domain.Product) (int, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id int) error
	Categories(ctx context.Context) ([]string, error)
}

type CatalogUseCase struct {
	repo   Repository
	logger *zap.Logger
}

func NewCatalogUseCase(repo Repository, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, logger: logger}
}

func (uc *CatalogUseCase) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return uc.repo.List(ctx, filter)
}

func (uc *CatalogUseCase) Get(ctx context.Context, id int) (*domain.Product, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *CatalogUseCase) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.Normalize()
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	id, err := uc.repo.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product created", zap.Int("id", id), zap.String("name", p.Name), zap.Int("stock", p.Stock))
	return uc.repo.FindByID(ctx, id)
}

// Update applies patch over the stored product.
func (uc *CatalogUseCase) Update(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	current, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	patch.Apply(&updated)
	if patch.Image != nil && patch.Images == nil {
		// a new primary image replaces the old one in the gallery
		updated.Images = removeImage(updated.Images, current.Image)
	}
	updated.Normalize()

	if err := validateProduct(updated); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	uc.logger.Info("product updated", zap.Int("id", id))
	return uc.repo.FindByID(ctx, id)
}

func (uc *CatalogUseCase) Delete(ctx context.Context, id int) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("product deleted", zap.Int("id", id))
	return nil
}

func (uc *CatalogUseCase) Categories(ctx context.Context) ([]string, error) {
	return uc.repo.Categories(ctx)
}

func validateProduct(p domain.Product) error {
	var details []apperrors.ValidationDetail

	if p.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if p.Price < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	}
	if p.PurchasingPrice < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "purchasingPrice", Message: "purchasingPrice must be non-negative"})
	}
	if p.Stock < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "stock", Message: "stock must be non-negative"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func removeImage(images []string, target string) []string {
	if target == "" {
		return images
	}
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img != target {
			out = append(out, img)
		}
	}
	return out
}
