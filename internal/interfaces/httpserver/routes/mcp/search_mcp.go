package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	domainsearch "github.com/janhq/freesearch-mcp/internal/domain/search"
	"github.com/janhq/freesearch-mcp/internal/infrastructure/metrics"
)

// SearchArgs defines the arguments shared by every free_*_search tool
type SearchArgs struct {
	Query        string `json:"query" jsonschema:"the search query"`
	Language     string `json:"language,omitempty" jsonschema:"search language code, auto by default"`
	SafeSearch   *int   `json:"safe_search,omitempty" jsonschema:"safe search level: 0 off, 1 moderate, 2 strict"`
	TimeRange    string `json:"time_range,omitempty" jsonschema:"restrict results to day, week, month or year; empty for any time"`
	OutputFormat string `json:"output_format,omitempty" jsonschema:"html for display fragments (default) or json for a structured array"`
}

// Tool key constants
const (
	ToolKeyGeneralSearch     = "free_general_search"
	ToolKeyNewsSearch        = "free_news_search"
	ToolKeyImageSearch       = "free_image_search"
	ToolKeyVideoSearch       = "free_video_search"
	ToolKeyMapSearch         = "free_map_search"
	ToolKeyMusicSearch       = "free_music_search"
	ToolKeyITSearch          = "free_it_search"
	ToolKeyScienceSearch     = "free_science_search"
	ToolKeyFileSearch        = "free_file_search"
	ToolKeySocialMediaSearch = "free_social_media_search"
)

type searchTool struct {
	key         string
	category    domainsearch.Category
	description string
}

var searchTools = []searchTool{
	{ToolKeyGeneralSearch, domainsearch.CategoryGeneral, "General web search. Returns title, URL and description of each result."},
	{ToolKeyNewsSearch, domainsearch.CategoryNews, "News search for current events. Results include publication date and source when available."},
	{ToolKeyImageSearch, domainsearch.CategoryImages, "Image search. Results include thumbnail, source and resolution when available."},
	{ToolKeyVideoSearch, domainsearch.CategoryVideos, "Video search for tutorials, films and clips. Results include thumbnail, length and author."},
	{ToolKeyMapSearch, domainsearch.CategoryMap, "Map and place search. Results include address details and coordinates."},
	{ToolKeyMusicSearch, domainsearch.CategoryMusic, "Music search for songs, albums and audio."},
	{ToolKeyITSearch, domainsearch.CategoryIT, "IT search for programming, systems, networking and security questions. Results include package attributes when available."},
	{ToolKeyScienceSearch, domainsearch.CategoryScience, "Scientific literature search. Results include authors, journal and DOI when available."},
	{ToolKeyFileSearch, domainsearch.CategoryFiles, "Downloadable file search. Results include seeds, leeches, size and magnet availability."},
	{ToolKeySocialMediaSearch, domainsearch.CategorySocialMedia, "Public social media search. Results include the hashtags found in each post."},
}

// SearchMCP handles MCP tool registration for the category search tools.
type SearchMCP struct {
	searchService *domainsearch.SearchService
}

// NewSearchMCP creates a new search MCP handler.
func NewSearchMCP(searchService *domainsearch.SearchService) *SearchMCP {
	return &SearchMCP{searchService: searchService}
}

// RegisterTools registers one tool per search category with the MCP server
func (s *SearchMCP) RegisterTools(server *mcp.Server) {
	for _, tool := range searchTools {
		mcp.AddTool(server, &mcp.Tool{
			Name:        tool.key,
			Description: tool.description,
		}, s.handler(tool))
	}
}

func (s *SearchMCP) handler(tool searchTool) mcp.ToolHandlerFor[SearchArgs, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchArgs) (*mcp.CallToolResult, any, error) {
		startTime := time.Now()

		log.Info().
			Str("tool", tool.key).
			Str("category", tool.category.Param()).
			Str("output_format", input.OutputFormat).
			Msg("MCP tool call received")

		safeSearch := tool.category.DefaultSafeSearch()
		if input.SafeSearch != nil {
			safeSearch = *input.SafeSearch
		}

		out, err := s.searchService.Search(ctx, domainsearch.Request{
			Query:      input.Query,
			Category:   tool.category,
			Language:   input.Language,
			SafeSearch: safeSearch,
			TimeRange:  input.TimeRange,
			Mode:       domainsearch.Mode(input.OutputFormat),
		})
		s.recordOutcome(tool, out, err)

		if err != nil {
			metrics.RecordToolCall(tool.key, "searxng", "error", time.Since(startTime).Seconds())
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil, nil
		}

		metrics.RecordToolCall(tool.key, "searxng", "success", time.Since(startTime).Seconds())
		metrics.RecordToolTokens(tool.key, "searxng", metrics.EstimateTokens(out.Text))

		log.Debug().
			Str("tool", tool.key).
			Int("records", out.Records).
			Bool("empty", out.Empty).
			Msg("search tool completed")

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: out.Text}},
		}, nil, nil
	}
}

func (s *SearchMCP) recordOutcome(tool searchTool, out *domainsearch.Outcome, err error) {
	if out == nil {
		return
	}
	shape := ""
	if out.State == domainsearch.StateRendered || out.State == domainsearch.StateExtracted {
		shape = out.Shape.String()
	}
	metrics.RecordSearchOutcome(tool.category.Param(), out.State.String(), shape)
	if out.State == domainsearch.StateRejected {
		metrics.RecordAdmissionDenial(tool.category.Param())
	}

	gate := s.searchService.Gate()
	metrics.SetQuotaUsage(gate.Snapshot().MonthCount, gate.MonthlyLimit())
}
