package usecase

import (
	"context"

	"go.uber.org/zap"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

type OrderStore interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Replace(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id uint) error
}

type ManageOrdersUseCase struct {
	orders OrderStore
	logger *zap.Logger
}

func NewManageOrdersUseCase(orders OrderStore, logger *zap.Logger) *ManageOrdersUseCase {
	return &ManageOrdersUseCase{orders: orders, logger: logger}
}

func (uc *ManageOrdersUseCase) Get(ctx context.Context, id uint) (*domain.Order, error) {
	return uc.orders.FindByID(ctx, id)
}

func (uc *ManageOrdersUseCase) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return uc.orders.List(ctx, filter)
}

// Replace overwrites the order record without any lifecycle side effect.
func (uc *ManageOrdersUseCase) Replace(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(order.Status) {
		return nil, apperrors.NewInvalidStatusError(order.Status)
	}

	if err := uc.orders.Replace(ctx, order); err != nil {
		return nil, err
	}

	uc.logger.Info("order replaced", zap.Uint("id", order.ID), zap.String("status", order.Status))
	return uc.orders.FindByID(ctx, order.ID)
}

func (uc *ManageOrdersUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.orders.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("order deleted", zap.Uint("id", id))
	return nil
}
