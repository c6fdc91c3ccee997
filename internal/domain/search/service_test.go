package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/freesearch-mcp/utils/platformerrors"
)

type stubFetcher struct {
	mu    sync.Mutex
	body  []byte
	shape Shape
	err   error
	calls []Request
}

func jsonFetcher(body string) *stubFetcher {
	return &stubFetcher{body: []byte(body), shape: ShapeStructured}
}

func htmlFetcher(body []byte) *stubFetcher {
	return &stubFetcher{body: body, shape: ShapeDocument}
}

func (f *stubFetcher) Fetch(_ context.Context, req Request) (*Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &Payload{Body: f.body, Shape: f.shape}, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type staticRedactor struct{}

func (staticRedactor) Redact(string) string { return "[REDACTED]" }

func newTestService(fetcher Fetcher, perSecond int) *SearchService {
	clock := newFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	return NewSearchService(fetcher, newTestGate(perSecond, 15000, clock), staticRedactor{})
}

func TestSearchRendersStructuredResults(t *testing.T) {
	fetcher := jsonFetcher(`{"results":[{"title":"Go","url":"https://go.dev","content":"Build"}]}`)
	svc := newTestService(fetcher, 10)

	out, err := svc.Search(context.Background(), Request{
		Query:    "  golang  ",
		Category: CategoryGeneral,
		Mode:     ModeStructured,
	})
	require.NoError(t, err)

	assert.Equal(t, StateRendered, out.State)
	assert.Equal(t, ShapeStructured, out.Shape)
	assert.Equal(t, 1, out.Records)
	assert.Contains(t, out.Text, `"title": "Go"`)

	require.Equal(t, 1, fetcher.callCount())
	sent := fetcher.calls[0]
	assert.Equal(t, "golang", sent.Query)
	assert.Equal(t, "auto", sent.Language)
}

func TestSearchEmptyDocumentShortCircuits(t *testing.T) {
	fetcher := htmlFetcher([]byte(`<html><body><div class="dialog-error-block" role="alert"></div></body></html>`))
	svc := newTestService(fetcher, 10)

	out, err := svc.Search(context.Background(), Request{Query: "nothing", Category: CategoryNews})
	require.NoError(t, err)
	assert.Equal(t, StateRendered, out.State)
	assert.True(t, out.Empty)
	assert.Equal(t, NoResultsMessage, out.Text)
}

func TestSearchRejectsInvalidInputBeforeAdmission(t *testing.T) {
	fetcher := jsonFetcher(`{"results":[]}`)
	svc := newTestService(fetcher, 1)

	for name, req := range map[string]Request{
		"blank query":  {Query: "   ", Category: CategoryGeneral},
		"safe search":  {Query: "go", Category: CategoryGeneral, SafeSearch: 7},
		"bad category": {Query: "go", Category: Category(99)},
	} {
		t.Run(name, func(t *testing.T) {
			out, err := svc.Search(context.Background(), req)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidInput))
			assert.Equal(t, StateIdle, out.State)
		})
	}

	assert.Zero(t, fetcher.callCount())
	assert.Zero(t, svc.Gate().Snapshot().MonthCount, "rejected input must not consume quota")
}

func TestSearchForwardsTimeRangeAndDefaultsMode(t *testing.T) {
	fetcher := jsonFetcher(`{"results":[{"title":"Go","url":"https://go.dev"}]}`)
	svc := newTestService(fetcher, 10)

	out, err := svc.Search(context.Background(), Request{
		Query:     "go",
		Category:  CategoryGeneral,
		TimeRange: " decade ",
		Mode:      "xml",
	})
	require.NoError(t, err)
	assert.Equal(t, StateRendered, out.State)
	assert.Contains(t, out.Text, "<div class='result result-general'>")

	require.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, "decade", fetcher.calls[0].TimeRange)
	assert.Equal(t, ModeDisplay, fetcher.calls[0].Mode)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeStructured, ParseMode(" JSON "))
	assert.Equal(t, ModeDisplay, ParseMode(""))
	assert.Equal(t, ModeDisplay, ParseMode("html"))
	assert.Equal(t, ModeDisplay, ParseMode("markdown"))
}

func TestSearchRateLimitedSkipsFetch(t *testing.T) {
	fetcher := jsonFetcher(`{"results":[]}`)
	svc := newTestService(fetcher, 1)

	_, err := svc.Search(context.Background(), Request{Query: "first", Category: CategoryGeneral})
	require.NoError(t, err)

	out, err := svc.Search(context.Background(), Request{Query: "second", Category: CategoryGeneral})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeRateLimited))
	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestSearchFetchFailure(t *testing.T) {
	svc := newTestService(&stubFetcher{err: errors.New("dial tcp: connection refused")}, 10)

	out, err := svc.Search(context.Background(), Request{Query: "go", Category: CategoryIT})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeTransportFailure))
	assert.Equal(t, StateFetchFailed, out.State)
	assert.Empty(t, out.Text)

	typed := platformerrors.NewError(platformerrors.LayerInfrastructure, platformerrors.ErrorTypeTransportFailure, "HTTP 502", nil)
	svc = newTestService(&stubFetcher{err: typed}, 10)
	_, err = svc.Search(context.Background(), Request{Query: "go", Category: CategoryIT})
	assert.Same(t, typed, err)
}

func TestSearchDecodeFailure(t *testing.T) {
	svc := newTestService(jsonFetcher(`{"results":[{"title":`), 10)

	out, err := svc.Search(context.Background(), Request{Query: "go", Category: CategoryScience})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeDecodeFailure))
	assert.Equal(t, StateDetectFailed, out.State)
}

func TestSearchNonJSONBodyWhenJSONRequested(t *testing.T) {
	for name, body := range map[string]string{
		"plain text":  "Too Many Requests",
		"html page":   "<html><body><h1>Access denied</h1></body></html>",
		"empty body":  "",
		"blank body":  " \n\t",
		"bom and tag": "\xef\xbb\xbf<html></html>",
	} {
		t.Run(name, func(t *testing.T) {
			fetcher := jsonFetcher(body)
			svc := newTestService(fetcher, 10)

			out, err := svc.Search(context.Background(), Request{Query: "go", Category: CategoryGeneral, Mode: ModeStructured})
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeDecodeFailure))
			assert.Equal(t, StateDetectFailed, out.State)
			assert.Empty(t, out.Text)
			assert.Equal(t, 1, fetcher.callCount())
		})
	}
}

func TestSearchJSONBodyWithByteOrderMark(t *testing.T) {
	svc := newTestService(jsonFetcher("\xef\xbb\xbf"+`{"results":[{"title":"Go","url":"https://go.dev"}]}`), 10)

	out, err := svc.Search(context.Background(), Request{Query: "go", Category: CategoryGeneral, Mode: ModeStructured})
	require.NoError(t, err)
	assert.Equal(t, StateRendered, out.State)
	assert.Equal(t, ShapeStructured, out.Shape)
	assert.Equal(t, 1, out.Records)
	assert.Contains(t, out.Text, `"url": "https://go.dev"`)
}

func TestSearchAllNodesDroppedRendersNoResults(t *testing.T) {
	fetcher := htmlFetcher(resultsPage(`<article class="result"><h3>no link</h3></article>`))
	svc := newTestService(fetcher, 10)

	out, err := svc.Search(context.Background(), Request{Query: "go", Category: CategoryMusic})
	require.NoError(t, err)
	assert.Equal(t, StateRendered, out.State)
	assert.Equal(t, 1, out.Nodes)
	assert.Equal(t, 0, out.Records)
	assert.True(t, out.Empty)
	assert.Equal(t, NoResultsMessage, out.Text)
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "rendered", StateRendered.String())
	assert.Equal(t, "fetch_failed", StateFetchFailed.String())
	assert.Equal(t, "state(42)", State(42).String())
}
