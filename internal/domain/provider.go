package domain

import (
	"github.com/google/wire"

	domainsearch "github.com/janhq/freesearch-mcp/internal/domain/search"
)

// DomainProvider provides all domain services
var DomainProvider = wire.NewSet(
	domainsearch.ProvideAdmissionGate,
	domainsearch.NewSearchService,
)
