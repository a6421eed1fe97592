package admin

import (
	"database/sql"

	"go.uber.org/zap"

	"wego/internal/admin/controller"
	"wego/internal/admin/repository"
	"wego/internal/admin/usecase"
)

type Module struct {
	Controller *controller.Controller
	Auth       *usecase.AuthUseCase
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLAdminRepository(db)
	auth := usecase.NewAuthUseCase(repo, logger)
	return &Module{
		Controller: controller.NewController(auth, logger),
		Auth:       auth,
	}
}
