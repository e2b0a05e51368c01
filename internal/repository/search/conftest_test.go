package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/matchdex/internal/domain/filter"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/index"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	queryFn  func(ctx context.Context, p plan.Plan) ([]index.Scored, error)
	scrollFn func(ctx context.Context, predicate filter.Predicate, limit, offset int) ([]index.Scored, error)
	countFn  func(ctx context.Context, predicate filter.Predicate) (uint64, error)
}

func (m *mockStore) Query(ctx context.Context, p plan.Plan) ([]index.Scored, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, p)
	}
	return nil, nil
}

func (m *mockStore) Scroll(ctx context.Context, predicate filter.Predicate, limit, offset int) ([]index.Scored, error) {
	if m.scrollFn != nil {
		return m.scrollFn(ctx, predicate, limit, offset)
	}
	return nil, nil
}

func (m *mockStore) Count(ctx context.Context, predicate filter.Predicate) (uint64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, predicate)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}

func testVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	return vec
}
