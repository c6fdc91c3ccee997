//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/janhq/freesearch-mcp/internal/domain"
	"github.com/janhq/freesearch-mcp/internal/infrastructure"
	"github.com/janhq/freesearch-mcp/internal/infrastructure/config"
	"github.com/janhq/freesearch-mcp/internal/interfaces"
	"github.com/janhq/freesearch-mcp/internal/interfaces/httpserver/routes"
)

func CreateApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	wire.Build(
		domain.DomainProvider,
		infrastructure.InfrastructureProvider,
		routes.RoutesProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
