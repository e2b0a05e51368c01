package parse

import (
	"context"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// QueryParser extracts structured filters and semantic queries from a
// natural-language query.
type QueryParser interface {
	Parse(ctx context.Context, query string) (domain.ParsedQuery, error)
}
