package interfaces

import (
	"github.com/google/wire"

	"github.com/janhq/freesearch-mcp/internal/infrastructure/searxng"
	"github.com/janhq/freesearch-mcp/internal/interfaces/httpserver"
)

// InterfacesProvider provides all interface layer dependencies
var InterfacesProvider = wire.NewSet(
	httpserver.NewHTTPServer,
	wire.Bind(new(httpserver.BackendStatus), new(*searxng.Client)),
)
