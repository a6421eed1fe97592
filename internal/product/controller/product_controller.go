package controller

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"wego/internal/commons"
	"wego/internal/domain"
	"wego/internal/dto"
)

type CatalogUseCase interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
	Categories(ctx context.Context) ([]string, error)
}

type Controller struct {
	useCase CatalogUseCase
	logger  *zap.Logger
}

func NewController(useCase CatalogUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	query := r.URL.Query()
	filter := domain.ProductFilter{
		Category: query.Get("category"),
		Search:   query.Get("search"),
	}
	if raw := query.Get("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err == nil {
			filter.IsActive = &active
		}
	}

	products, err := c.useCase.List(r.Context(), filter)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewProductListResponse(products), logger)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	id, ok := commons.UintParam(w, r, "id", logger)
	if !ok {
		return
	}

	product, err := c.useCase.Get(r.Context(), int(id))
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewProductResponse(*product), logger)
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	var req dto.CreateProductRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	product, err := c.useCase.Create(r.Context(), req.ToDomain())
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewProductResponse(*product), logger)
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	id, ok := commons.UintParam(w, r, "id", logger)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	product, err := c.useCase.Update(r.Context(), int(id), req.ToPatch())
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewProductResponse(*product), logger)
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	id, ok := commons.UintParam(w, r, "id", logger)
	if !ok {
		return
	}

	if err := c.useCase.Delete(r.Context(), int(id)); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"}, logger)
}

func (c *Controller) Categories(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	categories, err := c.useCase.Categories(r.Context())
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, categories, logger)
}
