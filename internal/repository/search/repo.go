// Package search executes retrieval plans against the index and maps
// raw scored points onto domain hits.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/matchdex/internal/domain/filter"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/domain/search/result"
	"github.com/kailas-cloud/matchdex/internal/index"
)

// store is the consumer interface for retrieval operations (ISP).
type store interface {
	Query(ctx context.Context, p plan.Plan) ([]index.Scored, error)
	Scroll(ctx context.Context, predicate filter.Predicate, limit, offset int) ([]index.Scored, error)
	Count(ctx context.Context, predicate filter.Predicate) (uint64, error)
}

// Repo implements usecase/search.Repository and usecase/impact.Counter.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search executes a retrieval plan, dispatching on its mode. Empty plans
// return no hits without touching the index.
func (r *Repo) Search(ctx context.Context, p plan.Plan) ([]result.Hit, error) {
	var (
		scored []index.Scored
		err    error
	)
	switch p.Mode() {
	case plan.ModeSemantic:
		scored, err = r.store.Query(ctx, p)
	case plan.ModeFilterOnly:
		scored, err = r.store.Scroll(ctx, p.Predicate(), p.Limit(), p.Offset())
	case plan.ModeEmpty:
		return []result.Hit{}, nil
	default:
		return nil, fmt.Errorf("unsupported plan mode: %s", p.Mode())
	}
	if err != nil {
		return nil, fmt.Errorf("execute %s plan: %w", p.Mode(), err)
	}

	hits := make([]result.Hit, 0, len(scored))
	for _, s := range scored {
		hits = append(hits, result.New(s.ID, s.Score, s.Payload))
	}
	return hits, nil
}

// Count returns the exact number of points matching the predicate.
func (r *Repo) Count(ctx context.Context, predicate filter.Predicate) (uint64, error) {
	n, err := r.store.Count(ctx, predicate)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
