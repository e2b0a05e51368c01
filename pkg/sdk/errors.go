package matchdex

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the service's machine-readable error codes.
// Use errors.Is() to check.
var (
	ErrBadRequest          = errors.New("matchdex: bad request")
	ErrValidation          = errors.New("matchdex: validation failed")
	ErrUnauthorized        = errors.New("matchdex: unauthorized")
	ErrProfileNotFound     = errors.New("matchdex: profile not found")
	ErrCollectionNotFound  = errors.New("matchdex: collection not found")
	ErrParserUnavailable   = errors.New("matchdex: query parser unavailable")
	ErrRateLimited         = errors.New("matchdex: rate limited")
	ErrQuotaExceeded       = errors.New("matchdex: embedding quota exceeded")
	ErrProviderUnavailable = errors.New("matchdex: embedding provider error")
	ErrInternal            = errors.New("matchdex: internal error")
)

var codeSentinels = map[string]error{
	"bad_request":              ErrBadRequest,
	"validation_failed":        ErrValidation,
	"unauthorized":             ErrUnauthorized,
	"profile_not_found":        ErrProfileNotFound,
	"collection_not_found":     ErrCollectionNotFound,
	"parser_unavailable":       ErrParserUnavailable,
	"rate_limited":             ErrRateLimited,
	"embedding_quota_exceeded": ErrQuotaExceeded,
	"embedding_provider_error": ErrProviderUnavailable,
	"internal_error":           ErrInternal,
}

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int    // HTTP status
	Code       string // machine-readable class, e.g. "profile_not_found"
	Message    string // human-readable detail
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("matchdex: http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("matchdex: %s (%s)", e.Message, e.Code)
}

// Unwrap maps the error code to its package sentinel, so callers can use
// errors.Is without inspecting codes.
func (e *APIError) Unwrap() error {
	return codeSentinels[e.Code]
}
