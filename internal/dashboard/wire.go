package dashboard

import (
	"database/sql"

	"go.uber.org/zap"

	"wego/internal/dashboard/controller"
	"wego/internal/dashboard/repository"
	"wego/internal/dashboard/usecase"
	orderrepo "wego/internal/order/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.Controller {
	statsRepo := repository.NewMySQLStatsRepository(db)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	uc := usecase.NewStatsUseCase(statsRepo, orderRepo, logger)
	return controller.NewController(uc, logger)
}
