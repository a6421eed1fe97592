package invoice

import (
	"database/sql"

	"go.uber.org/zap"

	"wego/internal/infrastructure/pdf"
	"wego/internal/invoice/controller"
	"wego/internal/invoice/repository"
	"wego/internal/invoice/service"
	orderrepo "wego/internal/order/repository"
)

type Module struct {
	Controller *controller.Controller
	Service    *service.InvoiceService
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	settingsRepo := repository.NewMySQLSettingsRepository(db)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)

	svc := service.NewInvoiceService(orderRepo, settingsRepo, pdf.NewInvoiceRenderer(), logger)

	return &Module{
		Controller: controller.NewController(svc, settingsRepo, logger),
		Service:    svc,
	}
}
