package order

import (
	"database/sql"

	"go.uber.org/zap"

	"wego/internal/config"
	"wego/internal/infrastructure/mysql"
	"wego/internal/order/controller"
	orderrepo "wego/internal/order/repository"
	"wego/internal/order/service"
	"wego/internal/order/usecase"
	productrepo "wego/internal/product/repository"
)

func NewModule(
	db *sql.DB,
	subscribers usecase.SubscriberRegistrar,
	notifier usecase.InvoiceNotifier,
	cfg *config.Config,
	logger *zap.Logger,
) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)
	transactor := mysql.NewTransactor(db, cfg.Order.StatusTxTimeout)

	fulfillmentSvc := service.NewFulfillmentService(
		transactor,
		productRepo,
		orderRepo,
		logger,
	)

	createUC := usecase.NewCreateOrderUseCase(
		transactor,
		productRepo,
		orderRepo,
		subscribers,
		logger,
	)

	statusUC := usecase.NewUpdateStatusUseCase(
		fulfillmentSvc,
		notifier,
		logger,
		cfg.Order.MaxRetryAttempts,
	)

	manageUC := usecase.NewManageOrdersUseCase(orderRepo, logger)

	return controller.NewOrderController(createUC, statusUC, manageUC, logger)
}
