//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"ideaflow-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideIdeaRepository,
	ProvideStoreManager,
	ProvideJWTValidator,
	wire.Struct(new(Container), "*"),
)

// initializeContainer is the wire injector; the checked-in
// InitializeContainer in container.go is its hand-maintained output.
func initializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
