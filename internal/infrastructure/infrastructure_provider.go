package infrastructure

import (
	"context"

	"github.com/google/wire"

	domainsearch "github.com/janhq/freesearch-mcp/internal/domain/search"
	"github.com/janhq/freesearch-mcp/internal/infrastructure/config"
	"github.com/janhq/freesearch-mcp/internal/infrastructure/observability"
	"github.com/janhq/freesearch-mcp/internal/infrastructure/searxng"
	"github.com/janhq/freesearch-mcp/internal/infrastructure/telemetry"
)

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideGateConfig,

	// Aggregator client
	ProvideSearxngClient,
	wire.Bind(new(domainsearch.Fetcher), new(*searxng.Client)),

	// Query redaction
	ProvideQuerySanitizer,
	wire.Bind(new(domainsearch.QueryRedactor), new(*telemetry.QuerySanitizer)),

	// Tracing
	ProvideTracing,
)

// ProvideGateConfig maps the rate limit settings onto the admission gate
func ProvideGateConfig(cfg *config.Config) domainsearch.GateConfig {
	return domainsearch.GateConfig{
		PerSecond: cfg.RateLimitPerSecond,
		PerMonth:  cfg.RateLimitPerMonth,
	}
}

// ProvideSearxngClient provides the aggregator client
func ProvideSearxngClient(cfg *config.Config) *searxng.Client {
	return searxng.NewClient(searxng.ClientConfig{
		BaseURL:            cfg.SearxngURL,
		Cookie:             cfg.SearxngCookie,
		UserAgent:          cfg.SearxngUserAgent,
		Timeout:            cfg.RequestTimeout(),
		Format:             cfg.SearxngResponseFormat,
		CBEnabled:          cfg.SearxngCBEnabled,
		CBFailureThreshold: cfg.SearxngCBFailureThreshold,
		CBTimeout:          cfg.CBTimeout(),
	})
}

// ProvideQuerySanitizer provides the query scrubber used by logs and spans
func ProvideQuerySanitizer(cfg *config.Config) *telemetry.QuerySanitizer {
	return telemetry.NewQuerySanitizer(telemetry.ParsePIILevel(cfg.QueryLogPIILevel), cfg.ServiceName)
}

// ProvideTracing installs the OTLP tracer provider when enabled
func ProvideTracing(ctx context.Context, cfg *config.Config) (*observability.Provider, error) {
	return observability.Init(ctx, observability.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		TracingEnabled: cfg.OTELEnabled,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SamplingRate:   cfg.OTELSamplingRate,
	})
}
