// ABOUTME: Search handler exposing paste search, advanced search and diagnostics over HTTP
// ABOUTME: Serialises engine calls because strategies and the rate limiter are per-engine state

package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/byfranke/PastebinSearch/api/dto/mappers"
	"github.com/byfranke/PastebinSearch/api/dto/requests"
	"github.com/byfranke/PastebinSearch/api/dto/responses"
	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/danielgtaylor/huma/v2"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	engine interfaces.SearchEngine

	mu sync.Mutex
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(engine interfaces.SearchEngine) *SearchHandler {
	return &SearchHandler{
		engine: engine,
	}
}

// RegisterRoutes registers all search routes with the API
func (h *SearchHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Search pastes",
		Description: "Runs the search strategies in order and returns the first successful result set",
		Tags:        []string{"Search"},
	}, h.Search)

	huma.Register(api, huma.Operation{
		OperationID: "advancedSearch",
		Method:      http.MethodPost,
		Path:        "/search/advanced",
		Summary:     "Search pastes with filters",
		Description: "Searches, then applies date, size and syntax filters and an optional security scan",
		Tags:        []string{"Search"},
	}, h.AdvancedSearch)

	huma.Register(api, huma.Operation{
		OperationID: "diagnose",
		Method:      http.MethodGet,
		Path:        "/diagnose",
		Summary:     "Test connectivity",
		Description: "Probes the paste site root and reports TLS status and a suggested fix",
		Tags:        []string{"Diagnostics"},
	}, h.Diagnose)
}

// SearchInput defines the query parameters for GET /search
type SearchInput struct {
	Query string `query:"q" doc:"Search term"`
	Limit int    `query:"limit" minimum:"0" doc:"Maximum number of results, 0 uses the server default"`
}

// SearchOutput is returned by both search endpoints
type SearchOutput struct {
	Body responses.SearchResponse
}

// Search handles the GET /search endpoint
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	results, err := h.engine.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchOutput{Body: *mappers.ToSearchResponse(input.Query, results)}, nil
}

// AdvancedSearchInput defines the body for POST /search/advanced
type AdvancedSearchInput struct {
	Body requests.AdvancedSearchRequest
}

// AdvancedSearch handles the POST /search/advanced endpoint
func (h *SearchHandler) AdvancedSearch(ctx context.Context, input *AdvancedSearchInput) (*SearchOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	results, err := h.engine.AdvancedSearch(ctx, input.Body.Query, input.Body.ToFilters())
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchOutput{Body: *mappers.ToSearchResponse(input.Body.Query, results)}, nil
}

// DiagnoseOutput defines the output for GET /diagnose
type DiagnoseOutput struct {
	Body responses.ConnectivityResponse
}

// Diagnose handles the GET /diagnose endpoint.
// An unreachable site is a successful diagnosis, not an HTTP error.
func (h *SearchHandler) Diagnose(ctx context.Context, input *struct{}) (*DiagnoseOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	report := h.engine.TestConnectivity(ctx)
	return &DiagnoseOutput{Body: *mappers.ToConnectivityResponse(report)}, nil
}
