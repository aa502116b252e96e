// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines the search engine contract consumed by the API and CLI

package interfaces

import (
	"context"

	"github.com/byfranke/PastebinSearch/core/domain"
)

// SearchEngine is the public surface of the paste search engine
type SearchEngine interface {
	Search(ctx context.Context, term string, limit int) ([]domain.SearchResult, error)
	AdvancedSearch(ctx context.Context, term string, filters domain.Filters) ([]domain.SearchResult, error)
	TestConnectivity(ctx context.Context) domain.ConnectivityReport
}
