package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProfileNotFound signals a missing profile point.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrMissingProfileID signals an ingest payload without an identifier.
	ErrMissingProfileID = errors.New("profile id is required")
	// ErrCollectionNotFound signals a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrParserUnavailable signals that semantic query parsing is not configured.
	ErrParserUnavailable = errors.New("query parsing unavailable")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrInvalidProfile signals a malformed ingest document or batch.
	ErrInvalidProfile = errors.New("invalid profile")
)

// FieldEmbeddingError wraps an embedding failure with the profile field it occurred on.
type FieldEmbeddingError struct {
	Field string
	Err   error
}

func (e *FieldEmbeddingError) Error() string {
	return fmt.Sprintf("embed field %s: %v", e.Field, e.Err)
}

func (e *FieldEmbeddingError) Unwrap() error { return e.Err }

// NewFieldEmbeddingError creates a field embedding error.
func NewFieldEmbeddingError(field string, err error) error {
	return &FieldEmbeddingError{Field: field, Err: err}
}
