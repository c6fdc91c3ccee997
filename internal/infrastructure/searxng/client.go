package searxng

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	domainsearch "github.com/janhq/freesearch-mcp/internal/domain/search"
	"github.com/janhq/freesearch-mcp/internal/infrastructure/metrics"
	"github.com/janhq/freesearch-mcp/utils/platformerrors"
)

const (
	searchPath = "/search"
	provider   = "searxng"

	// publicInstanceHost serves HTML only; every other instance is asked for JSON.
	publicInstanceHost = "searx.bndkt.io"

	browserAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"
	formType      = "application/x-www-form-urlencoded"

	defaultTimeout            = 10 * time.Second
	defaultCBFailureThreshold = 15
	defaultCBTimeout          = 45 * time.Second
)

// ClientConfig holds aggregator connection settings.
type ClientConfig struct {
	BaseURL   string
	Cookie    string
	UserAgent string
	Timeout   time.Duration
	// Format is auto, json or html.
	Format string

	CBEnabled          bool
	CBFailureThreshold int
	CBTimeout          time.Duration
}

// Client posts search forms to one SearXNG instance and hands back the raw body.
type Client struct {
	cfg    ClientConfig
	http   *resty.Client
	format string
	cb     *gobreaker.CircuitBreaker[[]byte]
}

var _ domainsearch.Fetcher = (*Client)(nil)

// NewClient builds the aggregator client. Failed calls are never retried.
func NewClient(cfg ClientConfig) *Client {
	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", browserAccept).
		SetHeader("Content-Type", formType).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)
	if cfg.Cookie != "" {
		httpClient.SetHeader("Cookie", cfg.Cookie)
	}

	c := &Client{
		cfg:    cfg,
		http:   httpClient,
		format: ResolveFormat(cfg.Format, cfg.BaseURL),
	}
	if cfg.CBEnabled {
		c.cb = newBreaker(cfg)
		metrics.SetCircuitBreakerState(provider, gobreaker.StateClosed.String())
	}
	return c
}

func newBreaker(cfg ClientConfig) *gobreaker.CircuitBreaker[[]byte] {
	threshold := cfg.CBFailureThreshold
	if threshold <= 0 {
		threshold = defaultCBFailureThreshold
	}
	timeout := cfg.CBTimeout
	if timeout <= 0 {
		timeout = defaultCBTimeout
	}

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("service", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.SetCircuitBreakerState(provider, to.String())
		},
		// A cancelled caller says nothing about the aggregator's health.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	})
}

// ResolveFormat picks the response format requested from the aggregator.
func ResolveFormat(format, baseURL string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return "json"
	case "html":
		return "html"
	}
	if strings.Contains(baseURL, publicInstanceHost) {
		return "html"
	}
	return "json"
}

// Format returns the response format this client asks for.
func (c *Client) Format() string {
	return c.format
}

// State reports the breaker state, or "disabled".
func (c *Client) State() string {
	if c.cb == nil {
		return "disabled"
	}
	return c.cb.State().String()
}

// Shape returns the response shape matching the requested format.
func (c *Client) Shape() domainsearch.Shape {
	if c.format == "json" {
		return domainsearch.ShapeStructured
	}
	return domainsearch.ShapeDocument
}

// Fetch performs one POST /search. The body is returned untouched, tagged
// with the shape the format parameter asked for.
func (c *Client) Fetch(ctx context.Context, req domainsearch.Request) (*domainsearch.Payload, error) {
	body, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return &domainsearch.Payload{Body: body, Shape: c.Shape()}, nil
}

func (c *Client) execute(ctx context.Context, req domainsearch.Request) ([]byte, error) {
	if c.cb == nil {
		return c.post(ctx, req)
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.post(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.Error().Str("service", provider).Str("state", c.cb.State().String()).Msg("searxng circuit breaker is open, skipping")
		return nil, platformerrors.NewErrorWithContext(
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeTransportFailure,
			"search backend temporarily unavailable",
			err,
			map[string]any{"provider": provider},
		)
	}
	return body, err
}

func (c *Client) post(ctx context.Context, req domainsearch.Request) ([]byte, error) {
	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordExternalProviderLatency(provider, status, time.Since(startTime).Seconds())
	}()

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(c.form(req)).
		Post(searchPath)
	if err != nil {
		status = "error"
		log.Error().Err(err).Str("service", provider).Str("url", c.cfg.BaseURL).Msg("failed to query SearXNG API")
		return nil, platformerrors.NewErrorWithContext(
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeTransportFailure,
			"HTTP Error",
			err,
			map[string]any{"provider": provider, "category": req.Category.Tag()},
		)
	}
	if !resp.IsSuccess() {
		status = strconv.Itoa(resp.StatusCode())
		log.Error().Int("status", resp.StatusCode()).Str("service", provider).Msg("SearXNG API error")
		return nil, platformerrors.NewErrorWithContext(
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeTransportFailure,
			fmt.Sprintf("HTTP Error: status %d %s", resp.StatusCode(), http.StatusText(resp.StatusCode())),
			nil,
			map[string]any{"provider": provider, "status": resp.StatusCode()},
		)
	}

	log.Debug().
		Str("service", provider).
		Str("category", req.Category.Tag()).
		Int("bytes", len(resp.Body())).
		Dur("elapsed", time.Since(startTime)).
		Msg("searxng response received")
	return resp.Body(), nil
}

func (c *Client) form(req domainsearch.Request) map[string]string {
	return map[string]string{
		"q":           req.Query,
		"language":    req.Language,
		"time_range":  req.TimeRange,
		"safe_search": strconv.Itoa(req.SafeSearch),
		"categories":  req.Category.Param(),
		"theme":       "simple",
		"format":      c.format,
	}
}
