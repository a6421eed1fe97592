package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"wego/internal/commons"
	"wego/internal/domain"
	"wego/internal/dto"
)

type StatsUseCase interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type Controller struct {
	useCase StatsUseCase
	logger  *zap.Logger
}

func NewController(useCase StatsUseCase, logger *zap.Logger) *Controller {
	return &Controller{useCase: useCase, logger: logger}
}

func (c *Controller) Stats(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(r, c.logger)

	stats, err := c.useCase.Stats(r.Context())
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewDashboardStatsResponse(*stats), logger)
}
