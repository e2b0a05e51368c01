package profile

import (
	"context"
	"testing"

	domprof "github.com/kailas-cloud/matchdex/internal/domain/profile"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/index"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	upsertFn        func(ctx context.Context, points []index.Point) (int, error)
	updateVectorsFn func(ctx context.Context, pointID string, vectors map[string]plan.Vector) error
	setPayloadFn    func(ctx context.Context, pointID string, payload map[string]any) error
	getFn           func(ctx context.Context, pointID string) (index.Point, error)
	deleteFn        func(ctx context.Context, pointID string) error
}

func (m *mockStore) Upsert(ctx context.Context, points []index.Point) (int, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, points)
	}
	return len(points), nil
}

func (m *mockStore) UpdateVectors(ctx context.Context, pointID string, vectors map[string]plan.Vector) error {
	if m.updateVectorsFn != nil {
		return m.updateVectorsFn(ctx, pointID, vectors)
	}
	return nil
}

func (m *mockStore) SetPayload(ctx context.Context, pointID string, payload map[string]any) error {
	if m.setPayloadFn != nil {
		return m.setPayloadFn(ctx, pointID, payload)
	}
	return nil
}

func (m *mockStore) Get(ctx context.Context, pointID string) (index.Point, error) {
	if m.getFn != nil {
		return m.getFn(ctx, pointID)
	}
	return index.Point{}, index.ErrPointNotFound
}

func (m *mockStore) Delete(ctx context.Context, pointID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, pointID)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}

func testProfile(t *testing.T) domprof.Profile {
	t.Helper()
	return domprof.Profile{
		ID:              "user-42",
		Name:            "Asha K",
		IsCirculateable: true,
		Gender:          "F",
		Education:       "MBA from IIM Bangalore",
		EducationHash:   "abc123",
	}
}

func testVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	return vec
}
