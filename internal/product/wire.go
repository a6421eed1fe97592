package product

import (
	"database/sql"

	"go.uber.org/zap"

	"wego/internal/product/controller"
	"wego/internal/product/repository"
	"wego/internal/product/usecase"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.Controller {
	repo := repository.NewMySQLRepository(db)
	uc := usecase.NewCatalogUseCase(repo, logger)
	return controller.NewController(uc, logger)
}
