// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the collaborators required by the search orchestrator and scanner

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache backs the result cache
	Cache Cache

	// Transport performs upstream fetches
	Transport Transport

	// Limiter gates every upstream fetch
	Limiter RateLimiter

	// Logger provides structured logging
	Logger Logger
}
