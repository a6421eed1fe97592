package upload

import (
	"go.uber.org/zap"

	"wego/internal/config"
	"wego/internal/infrastructure/storage"
	"wego/internal/upload/controller"
)

func NewModule(cfg config.CloudinaryConfig, logger *zap.Logger) (*controller.Controller, error) {
	store, err := storage.NewCloudinaryStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	return controller.NewController(store, logger), nil
}
