package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/freesearch-mcp/utils/platformerrors"
)

const tracerName = "github.com/janhq/freesearch-mcp/search"

// Fetcher performs the outbound aggregator call and returns the raw body
// tagged with the shape it requested.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Payload, error)
}

// QueryRedactor scrubs a query before it reaches logs or spans.
type QueryRedactor interface {
	Redact(query string) string
}

// State tracks how far a search got through the pipeline.
type State int

const (
	StateIdle State = iota
	StateAdmitted
	StateFetched
	StateDetected
	StateExtracted
	StateRendered
	StateRejected
	StateFetchFailed
	StateDetectFailed
)

var stateNames = [...]string{
	StateIdle:         "idle",
	StateAdmitted:     "admitted",
	StateFetched:      "fetched",
	StateDetected:     "detected",
	StateExtracted:    "extracted",
	StateRendered:     "rendered",
	StateRejected:     "rejected",
	StateFetchFailed:  "fetch_failed",
	StateDetectFailed: "detect_failed",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome describes a finished search, successful or not.
type Outcome struct {
	Text    string
	State   State
	Shape   Shape
	Empty   bool
	Nodes   int
	Records int
}

// SearchService runs one category-scoped search from admission to rendered text.
type SearchService struct {
	fetcher  Fetcher
	gate     *AdmissionGate
	redactor QueryRedactor
}

// NewSearchService creates a new search service.
func NewSearchService(fetcher Fetcher, gate *AdmissionGate, redactor QueryRedactor) *SearchService {
	return &SearchService{
		fetcher:  fetcher,
		gate:     gate,
		redactor: redactor,
	}
}

// Gate exposes the admission gate for quota reporting.
func (s *SearchService) Gate() *AdmissionGate {
	return s.gate
}

// Normalize fills request defaults and rejects input that must never reach
// the aggregator. time_range is forwarded as given.
func Normalize(req Request) (Request, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, invalidInput("query must be a non-empty string")
	}
	if !req.Category.Valid() {
		return req, invalidInput(fmt.Sprintf("unknown category %d", int(req.Category)))
	}
	if req.Language = strings.TrimSpace(req.Language); req.Language == "" {
		req.Language = "auto"
	}
	if req.SafeSearch < 0 || req.SafeSearch > 2 {
		return req, invalidInput("safe_search must be 0, 1 or 2")
	}
	req.TimeRange = strings.TrimSpace(req.TimeRange)
	req.Mode = ParseMode(string(req.Mode))
	return req, nil
}

func invalidInput(msg string) error {
	return platformerrors.NewError(platformerrors.LayerDomain, platformerrors.ErrorTypeInvalidInput, msg, nil)
}

// Search admits, fetches, detects, extracts and renders. The returned Outcome
// is never nil, and its State is the last state reached.
func (s *SearchService) Search(ctx context.Context, req Request) (*Outcome, error) {
	out := &Outcome{State: StateIdle}
	start := time.Now()

	req, err := Normalize(req)
	if err != nil {
		return out, err
	}

	query := req.Query
	if s.redactor != nil {
		query = s.redactor.Redact(query)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "search."+req.Category.Tag(),
		trace.WithAttributes(
			attribute.String("search.category", req.Category.Param()),
			attribute.String("search.query", query),
			attribute.String("search.mode", string(req.Mode)),
		))
	defer span.End()

	err = s.run(ctx, req, out)

	span.SetAttributes(
		attribute.String("search.state", out.State.String()),
		attribute.Int("search.records", out.Records),
	)

	logger := log.With().
		Str("category", req.Category.Param()).
		Str("query", query).
		Str("state", out.State.String()).
		Dur("duration", time.Since(start)).
		Logger()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var platformErr *platformerrors.PlatformError
		if errors.As(err, &platformErr) {
			platformerrors.LogError(logger, platformErr)
		} else {
			logger.Error().Err(err).Msg("search failed")
		}
		return out, err
	}

	logger.Info().
		Str("shape", out.Shape.String()).
		Int("nodes", out.Nodes).
		Int("records", out.Records).
		Bool("empty", out.Empty).
		Msg("search completed")
	return out, nil
}

func (s *SearchService) run(ctx context.Context, req Request, out *Outcome) error {
	if !s.gate.Admit() {
		out.State = StateRejected
		return platformerrors.NewErrorWithContext(platformerrors.LayerDomain, platformerrors.ErrorTypeRateLimited,
			"Rate limit exceeded, please try again later", nil, map[string]any{"category": req.Category.Param()})
	}
	out.State = StateAdmitted

	payload, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		out.State = StateFetchFailed
		if platformerrors.TypeOf(err) == platformerrors.ErrorTypeUnexpected {
			return platformerrors.NewError(platformerrors.LayerDomain, platformerrors.ErrorTypeTransportFailure,
				"aggregator request failed", err)
		}
		return err
	}
	out.State = StateFetched

	rs, err := DetectAs(payload.Body, payload.Shape)
	if err != nil {
		out.State = StateDetectFailed
		return err
	}
	out.State = StateDetected
	out.Shape = rs.Shape
	out.Nodes = len(rs.Nodes)

	if rs.Empty() {
		out.Empty = true
		out.Text, err = Render(nil, req.Mode)
		if err != nil {
			return platformerrors.AsError(platformerrors.LayerDomain, err, "rendering failed")
		}
		out.State = StateRendered
		return nil
	}

	records, err := Extract(req.Category, rs)
	if err != nil {
		return err
	}
	out.State = StateExtracted
	out.Records = len(records)
	out.Empty = len(records) == 0

	out.Text, err = Render(records, req.Mode)
	if err != nil {
		return platformerrors.AsError(platformerrors.LayerDomain, err, "rendering failed")
	}
	out.State = StateRendered
	return nil
}
