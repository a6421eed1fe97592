package controller

import (
	"context"
	"net/http"
	"net/mail"
	"strconv"

	"go.uber.org/zap"

	"wego/internal/commons"
	"wego/internal/domain"
	"wego/internal/dto"
	apperrors "wego/internal/errors"
)

const maxOrderItems = 100

type CreateOrderUseCase interface {
	CreateOrder(ctx context.Context, draft domain.Order) (*domain.Order, error)
}

type UpdateStatusUseCase interface {
	UpdateStatus(ctx context.Context, orderID uint, status string) (*dto.TransitionResult, error)
}

type ManageOrdersUseCase interface {
	Get(ctx context.Context, id uint) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Replace(ctx context.Context, order domain.Order) (*domain.Order, error)
	Delete(ctx context.Context, id uint) error
}

type OrderController struct {
	createUC CreateOrderUseCase
	statusUC UpdateStatusUseCase
	manageUC ManageOrdersUseCase
	logger   *zap.Logger
}

func NewOrderController(
	createUC CreateOrderUseCase,
	statusUC UpdateStatusUseCase,
	manageUC ManageOrdersUseCase,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		createUC: createUC,
		statusUC: statusUC,
		manageUC: manageUC,
		logger:   logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	var req dto.CreateOrderRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	if validationErr := validateCreateOrderRequest(req); validationErr != nil {
		commons.WriteValidationError(w, logger, validationErr.Message, validationErr.Details...)
		return
	}

	order, err := c.createUC.CreateOrder(r.Context(), req.ToDomain())
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(*order), logger)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	id, ok := commons.UintParam(w, r, "id", logger)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	result, err := c.statusUC.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.StatusTransitionResponse{
		OrderResponse: dto.NewOrderResponse(*result.Order),
		LowStockAlert: dto.NewLowStockAlert(result.DepletedProducts),
	}, logger)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	filter := domain.OrderFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}

	orders, err := c.manageUC.List(r.Context(), filter)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewOrderListResponse(orders), logger)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	id, ok := commons.UintParam(w, r, "id", logger)
	if !ok {
		return
	}

	order, err := c.manageUC.Get(r.Context(), id)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(*order), logger)
}

func (c *OrderController) Replace(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	id, ok := commons.UintParam(w, r, "id", logger)
	if !ok {
		return
	}

	var req dto.ReplaceOrderRequest
	if !commons.DecodeJSON(w, r, &req, logger) {
		return
	}

	if validationErr := validateCustomer(req.CustomerName, req.CustomerEmail); validationErr != nil {
		commons.WriteValidationError(w, logger, validationErr.Message, validationErr.Details...)
		return
	}

	order, err := c.manageUC.Replace(r.Context(), req.ToDomain(id))
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(*order), logger)
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	id, ok := commons.UintParam(w, r, "id", logger)
	if !ok {
		return
	}

	if err := c.manageUC.Delete(r.Context(), id); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"}, logger)
}

func validateCustomer(name, email string) *apperrors.ValidationError {
	var details []apperrors.ValidationDetail

	if name == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customerName",
			Message: "customerName is required",
		})
	}

	if email == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customerEmail",
			Message: "customerEmail is required",
		})
	} else if _, err := mail.ParseAddress(email); err != nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customerEmail",
			Message: "customerEmail must be a valid email address",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) *apperrors.ValidationError {
	var details []apperrors.ValidationDetail

	if ve := validateCustomer(req.CustomerName, req.CustomerEmail); ve != nil {
		details = append(details, ve.Details...)
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxOrderItems {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of " + strconv.Itoa(maxOrderItems),
		})
	}

	for idx, item := range req.Items {
		prefix := "items[" + strconv.Itoa(idx) + "]"

		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".productId",
				Message: "productId must be a positive integer",
			})
		}

		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".quantity",
				Message: "quantity must be at least 1",
			})
		}

		if item.Price < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".price",
				Message: "price must be non-negative",
			})
		}
	}

	amounts := map[string]float64{
		"subtotal": req.Subtotal,
		"shipping": req.Shipping,
		"tax":      req.Tax,
		"total":    req.Total,
	}
	for _, field := range []string{"subtotal", "shipping", "tax", "total"} {
		if amounts[field] < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field,
				Message: field + " must be non-negative",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
