package routes

import (
	"github.com/google/wire"

	"github.com/janhq/freesearch-mcp/internal/interfaces/httpserver/routes/mcp"
)

// RoutesProvider provides the MCP tool handlers and route
var RoutesProvider = wire.NewSet(
	mcp.NewSearchMCP,
	mcp.NewMCPRoute,
)
