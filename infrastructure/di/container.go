package di

import (
	"context"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/application/store"
	"ideaflow-backend/infrastructure/config"
	"ideaflow-backend/pkg/auth"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	IdeaRepo     ports.IdeaRepository
	StoreManager *store.Manager
	JWTValidator *auth.JWTValidator
}

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	repo, err := ProvideIdeaRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	validator, err := ProvideJWTValidator(cfg)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:       cfg,
		Logger:       logger,
		IdeaRepo:     repo,
		StoreManager: ProvideStoreManager(repo, logger),
		JWTValidator: validator,
	}, nil
}
