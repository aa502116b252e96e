// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts engine and core errors to appropriate HTTP responses

package handlers

import (
	"context"
	"errors"

	coreerrors "github.com/byfranke/PastebinSearch/core/errors"
	"github.com/byfranke/PastebinSearch/engine"
	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts engine errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	var validation *coreerrors.ValidationError
	if errors.As(err, &validation) {
		return huma.Error400BadRequest(validation.Error())
	}

	var unreachable *coreerrors.UnreachableError
	if errors.As(err, &unreachable) {
		detail := unreachable.Detail
		if unreachable.SuggestedFix != "" {
			detail += ". " + unreachable.SuggestedFix
		}
		return huma.Error503ServiceUnavailable("Paste site unreachable: " + detail)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("Search timed out")
	case errors.Is(err, context.Canceled):
		// the client went away, the status is never read
		return huma.Error503ServiceUnavailable("Request canceled")
	case engine.IsNetworkError(err):
		return huma.Error502BadGateway("Upstream request failed", err)
	case errors.Is(err, engine.ErrClosed):
		return huma.Error503ServiceUnavailable("Search engine is shutting down")
	}

	// Default to internal server error for unknown errors
	return huma.Error500InternalServerError("Internal server error", err)
}
