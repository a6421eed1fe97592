package usecase

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"wego/internal/domain"
	"wego/internal/dto"
	apperrors "wego/internal/errors"
	"wego/internal/infrastructure/mysql"
)

type StatusTransitionService interface {
	TransitionStatus(ctx context.Context, orderID uint, status string) (*dto.TransitionResult, error)
}

// InvoiceNotifier sends the paid invoice in the background. It must not block.
type InvoiceNotifier interface {
	NotifyInvoice(order domain.Order)
}

type UpdateStatusUseCase struct {
	transitionSvc    StatusTransitionService
	notifier         InvoiceNotifier
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewUpdateStatusUseCase(
	transitionSvc StatusTransitionService,
	notifier InvoiceNotifier,
	logger *zap.Logger,
	maxRetryAttempts int,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		transitionSvc:    transitionSvc,
		notifier:         notifier,
		logger:           logger,
		maxRetryAttempts: max(maxRetryAttempts, 1),
	}
}

func (uc *UpdateStatusUseCase) UpdateStatus(ctx context.Context, orderID uint, status string) (*dto.TransitionResult, error) {
	// Bloque 1: Validar estado (sin mutación)
	if !domain.IsValidOrderStatus(status) {
		uc.logger.Warn("invalid order status requested", zap.Uint("orderId", orderID), zap.String("status", status))
		return nil, apperrors.NewInvalidStatusError(status)
	}

	// Bloque 2: Transición con retry
	result, err := uc.transitionWithRetry(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	// Bloque 3: Factura asíncrona, solo al entrar en Completed
	if result.Completed {
		uc.notifier.NotifyInvoice(*result.Order)
	}

	if len(result.DepletedProducts) > 0 {
		uc.logger.Warn("products out of stock after completion",
			zap.Uint("orderId", orderID),
			zap.Strings("products", result.DepletedProducts),
		)
	}

	return result, nil
}

func (uc *UpdateStatusUseCase) transitionWithRetry(ctx context.Context, orderID uint, status string) (*dto.TransitionResult, error) {
	maxAttempts := uc.maxRetryAttempts
	// Backoff base per attempt: 0ms, 100ms, 200ms, then 200ms onwards
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := uc.transitionSvc.TransitionStatus(ctx, orderID, status)
		if err == nil {
			return result, nil
		}

		if !mysql.IsDeadlock(err) {
			return nil, err
		}

		if attempt == maxAttempts {
			break
		}

		uc.logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.Uint("orderId", orderID))

		base := backoffs[min(attempt, len(backoffs)-1)]
		// ±20% jitter
		wait := base + time.Duration((rand.Float64()*0.4-0.2)*float64(base))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}
