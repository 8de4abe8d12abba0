package di

import (
	"fmt"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/application/store"
	"ideaflow-backend/infrastructure/config"
	"ideaflow-backend/infrastructure/persistence/localfile"
	"ideaflow-backend/infrastructure/persistence/supabase"
	"ideaflow-backend/pkg/auth"

	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideIdeaRepository creates the repository for the configured
// persistence medium
func ProvideIdeaRepository(cfg *config.Config, logger *zap.Logger) (ports.IdeaRepository, error) {
	switch cfg.StorageDriver {
	case config.DriverLocal:
		return localfile.New(cfg.LocalDataDir, logger)
	case config.DriverSupabase:
		return supabase.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// ProvideStoreManager creates the per-owner store manager
func ProvideStoreManager(repo ports.IdeaRepository, logger *zap.Logger) *store.Manager {
	return store.NewManager(repo, logger)
}

// ProvideJWTValidator creates the token validator for the identity
// provider's tokens
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		// Development fallback; Validate rejects this in production.
		secret = "development-secret-change-in-production"
	}

	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
}
