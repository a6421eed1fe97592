package newsletter

import (
	"context"
	"database/sql"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"wego/internal/config"
	invoicerepo "wego/internal/invoice/repository"
	"wego/internal/newsletter/controller"
	"wego/internal/newsletter/repository"
	"wego/internal/newsletter/usecase"
	productrepo "wego/internal/product/repository"
	productservice "wego/internal/product/service"
)

type Module struct {
	Controller  *controller.Controller
	Subscribers *usecase.SubscribersUseCase
	Broadcast   *usecase.BroadcastUseCase

	subscriberRepo *repository.MongoSubscriberRepository
}

func NewModule(mongoDB *mongo.Database, db *sql.DB, m usecase.Mailer, cfg *config.Config, logger *zap.Logger) *Module {
	subscriberRepo := repository.NewMongoSubscriberRepository(mongoDB)
	newsletterRepo := repository.NewMongoNewsletterRepository(mongoDB)

	products := productservice.NewService(productrepo.NewMySQLRepository(db), logger)
	settings := invoicerepo.NewMySQLSettingsRepository(db)

	subscribers := usecase.NewSubscribersUseCase(subscriberRepo, logger)
	broadcast := usecase.NewBroadcastUseCase(
		subscriberRepo,
		newsletterRepo,
		products,
		settings,
		m,
		cfg.Newsletter.WebsiteURL,
		cfg.Newsletter.SendTimeout,
		logger,
	)

	return &Module{
		Controller:  controller.NewController(subscribers, broadcast, logger),
		Subscribers: subscribers,
		Broadcast:   broadcast,

		subscriberRepo: subscriberRepo,
	}
}

func (m *Module) EnsureIndexes(ctx context.Context) error {
	return m.subscriberRepo.EnsureIndexes(ctx)
}
