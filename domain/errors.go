// ABOUTME: Domain-level sentinel errors for the lectio service
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import "errors"

// Ingestion errors
var (
	// ErrOriginUnavailable indicates the content provider returned a network
	// error or a non-2xx status. Recovered locally with fallback content.
	ErrOriginUnavailable = errors.New("origin provider unavailable")

	// ErrParseYieldedNothing indicates the origin responded but no usable
	// records could be extracted from its markup. Treated like an origin
	// outage by the orchestrator.
	ErrParseYieldedNothing = errors.New("parse yielded no records")

	// ErrRateLimitExceeded indicates the client spent its daily miss budget
	// for a language. The only condition surfaced as a hard error (HTTP 429),
	// and the only one that must never trigger an origin fetch.
	ErrRateLimitExceeded = errors.New("daily fetch limit exceeded")
)

// Cache errors
var (
	// ErrCacheUnavailable indicates the shared cache backend is unreachable.
	// Callers treat the cache as advisory and continue without it.
	ErrCacheUnavailable = errors.New("cache backend unavailable")
)

// Validation errors
var (
	// ErrUnsupportedLanguage indicates a language outside the served set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrUnauthorizedScheduler indicates a prefetch call without the shared
	// scheduler secret. Rejected before any work begins.
	ErrUnauthorizedScheduler = errors.New("scheduler authentication failed")
)
