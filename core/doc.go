// Package core contains the paste search logic. It has no dependency on the
// HTTP API or the command line and reaches the network only through the
// collaborators declared in core/interfaces.
//
// The core package is organized into several sub-packages:
//
// - domain: Search results, filters, security flags and connectivity reports
// - site: URL layout of the paste site (search, archive, raw endpoints)
// - parsers: HTML and feed parsers, one per upstream page shape
// - search: Strategy orchestration with rate limiting and TLS fallback
// - relevance: Title against term scoring
// - cache: Result cache keyed by term and canonical filters
// - security: Raw paste scanner for credentials, database and crypto material
// - diagnostic: Connectivity probe
// - manual: Browser-driver search
// - ratelimit: Minimum interval between upstream requests
// - errors: Classified transport and validation errors
// - interfaces: Contracts for the transport, cache, limiter and logger
//
// # Usage Example
//
//	import (
//	    "github.com/byfranke/PastebinSearch/core/interfaces"
//	    "github.com/byfranke/PastebinSearch/core/search"
//	    "github.com/byfranke/PastebinSearch/core/site"
//	)
//
//	deps := interfaces.Dependencies{
//	    Transport: mySession, // implements interfaces.Transport
//	    Limiter:   myLimiter, // implements interfaces.RateLimiter
//	    Logger:    myLogger,  // implements interfaces.Logger
//	}
//
//	svc := search.NewSearchService(deps, site.Default())
//	results, err := svc.Search(ctx, "database leak", 10)
package core
