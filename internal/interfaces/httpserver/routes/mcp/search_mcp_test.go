package mcp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsearch "github.com/janhq/freesearch-mcp/internal/domain/search"
)

type recordingFetcher struct {
	mu       sync.Mutex
	body     []byte
	requests []domainsearch.Request
}

func (f *recordingFetcher) Fetch(_ context.Context, req domainsearch.Request) (*domainsearch.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return &domainsearch.Payload{Body: f.body, Shape: domainsearch.ShapeStructured}, nil
}

func (f *recordingFetcher) last() domainsearch.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestSession(t *testing.T, fetcher domainsearch.Fetcher, perSecond int) *mcp.ClientSession {
	t.Helper()

	gate := domainsearch.NewAdmissionGate(domainsearch.GateConfig{PerSecond: perSecond, PerMonth: 1000}, nil, nil)
	route := NewMCPRoute(NewSearchMCP(domainsearch.NewSearchService(fetcher, gate, nil)))

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := route.Server().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "freesearch-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}

func callText(t *testing.T, session *mcp.ClientSession, tool string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: tool, Arguments: args})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

func TestListToolsExposesEveryCategory(t *testing.T) {
	session := newTestSession(t, &recordingFetcher{body: []byte(`{"results":[]}`)}, 100)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
	assert.ElementsMatch(t, []string{
		ToolKeyGeneralSearch, ToolKeyNewsSearch, ToolKeyImageSearch, ToolKeyVideoSearch, ToolKeyMapSearch,
		ToolKeyMusicSearch, ToolKeyITSearch, ToolKeyScienceSearch, ToolKeyFileSearch, ToolKeySocialMediaSearch,
	}, names)

	assert.Contains(t, session.InitializeResult().Instructions, "free_social_media_search")
}

func TestSearchToolReturnsStructuredText(t *testing.T) {
	fetcher := &recordingFetcher{body: []byte(`{"results":[{"title":"Go","url":"https://go.dev","content":"Fast & simple"}]}`)}
	session := newTestSession(t, fetcher, 100)

	text, isErr := callText(t, session, ToolKeyGeneralSearch, map[string]any{
		"query":         "golang",
		"output_format": "json",
	})
	assert.False(t, isErr)
	assert.Contains(t, text, `"title": "Go"`)
	assert.Contains(t, text, `"description": "Fast &amp; simple"`)
	assert.Contains(t, text, `"type": "general"`)

	sent := fetcher.last()
	assert.Equal(t, domainsearch.CategoryGeneral, sent.Category)
	assert.Equal(t, 1, sent.SafeSearch)
	assert.Equal(t, "auto", sent.Language)
	assert.Equal(t, domainsearch.ModeStructured, sent.Mode)
}

func TestSearchToolSafeSearchDefaults(t *testing.T) {
	fetcher := &recordingFetcher{body: []byte(`{"results":[]}`)}
	session := newTestSession(t, fetcher, 100)

	text, isErr := callText(t, session, ToolKeyImageSearch, map[string]any{"query": "cats"})
	assert.False(t, isErr)
	assert.Equal(t, domainsearch.NoResultsMessage, text)
	assert.Equal(t, 0, fetcher.last().SafeSearch)

	_, isErr = callText(t, session, ToolKeyNewsSearch, map[string]any{"query": "cats", "safe_search": 2})
	assert.False(t, isErr)
	assert.Equal(t, 2, fetcher.last().SafeSearch)
}

func TestSearchToolErrorsAreToolResults(t *testing.T) {
	session := newTestSession(t, &recordingFetcher{body: []byte(`{"results":[]}`)}, 100)

	text, isErr := callText(t, session, ToolKeyITSearch, map[string]any{"query": "   "})
	assert.True(t, isErr)
	assert.Contains(t, text, "query")

	text, isErr = callText(t, session, ToolKeyITSearch, map[string]any{"query": "go", "output_format": "xml"})
	assert.False(t, isErr)
	assert.Equal(t, domainsearch.NoResultsMessage, text)

	blocked := newTestSession(t, &recordingFetcher{body: []byte("Too Many Requests")}, 100)
	text, isErr = callText(t, blocked, ToolKeyITSearch, map[string]any{"query": "go", "output_format": "json"})
	assert.True(t, isErr)
	assert.Contains(t, text, "malformed JSON")
}

func TestSearchToolRateLimited(t *testing.T) {
	fetcher := &recordingFetcher{body: []byte(`{"results":[]}`)}
	session := newTestSession(t, fetcher, 1)

	start := time.Now()
	_, isErr := callText(t, session, ToolKeyMusicSearch, map[string]any{"query": "first"})
	require.False(t, isErr)

	text, isErr := callText(t, session, ToolKeyMusicSearch, map[string]any{"query": "second"})
	if time.Since(start) >= time.Second {
		t.Skip("second call crossed the one-second window")
	}
	assert.True(t, isErr)
	assert.Contains(t, text, "Rate limit exceeded")
	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	assert.Len(t, fetcher.requests, 1)
}
