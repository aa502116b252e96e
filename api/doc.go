// Package api provides the HTTP API layer for the paste search engine.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Endpoints
//
//	GET  /search?q=term&limit=N   first successful strategy, ranked by relevance
//	POST /search/advanced         date, size and syntax filters plus optional security scan
//	GET  /diagnose                connectivity probe with TLS status and suggested fix
//
// The JSON spec is available at /openapi.json and the interactive docs at /docs.
//
// # Middleware
//
// - CORS handling
// - Request logging with UUID request IDs (X-Request-ID)
// - Per-client rate limiting on golang.org/x/time/rate
//
// # Usage Example
//
//	eng, err := engine.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  30,
//	    RateWindow: time.Minute,
//	})
//	handlers.NewSearchHandler(eng).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format:
//
//	{
//	    "status": 503,
//	    "title": "Service Unavailable",
//	    "detail": "Paste site unreachable: Connection timeout. Check internet connection or try increasing timeout"
//	}
//
// Validation errors map to 400, an unreachable site to 503 and a search timeout to 504.
package api
