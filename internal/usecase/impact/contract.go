package impact

import (
	"context"

	"github.com/kailas-cloud/matchdex/internal/domain/filter"
)

// Counter counts corpus points matching a predicate.
type Counter interface {
	Count(ctx context.Context, predicate filter.Predicate) (uint64, error)
}
