// Package index defines the vector index port: collection lifecycle,
// point storage with named vectors, and plan execution. Implementations
// live in subpackages.
package index

import (
	"context"
	"time"

	"github.com/kailas-cloud/matchdex/internal/domain/collection"
	"github.com/kailas-cloud/matchdex/internal/domain/filter"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
)

// Index is the vector index facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Index interface {
	Pinger
	CollectionManager
	PointWriter
	PointReader
	Searcher
	Close() error
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks index connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CollectionManager provides collection lifecycle operations.
type CollectionManager interface {
	EnsureCollection(ctx context.Context) (created bool, err error)
	CollectionInfo(ctx context.Context) (collection.Info, error)
}

// PointWriter provides point mutation operations.
type PointWriter interface {
	Upsert(ctx context.Context, points []Point) (int, error)
	UpdateVectors(ctx context.Context, pointID string, vectors map[string]plan.Vector) error
	SetPayload(ctx context.Context, pointID string, payload map[string]any) error
	Delete(ctx context.Context, pointID string) error
}

// PointReader provides point retrieval operations.
type PointReader interface {
	Get(ctx context.Context, pointID string) (Point, error)
	Count(ctx context.Context, predicate filter.Predicate) (uint64, error)
}

// Searcher executes retrieval plans.
type Searcher interface {
	Query(ctx context.Context, p plan.Plan) ([]Scored, error)
	Scroll(ctx context.Context, predicate filter.Predicate, limit, offset int) ([]Scored, error)
}

// Point is a stored record: named vectors plus a payload document.
type Point struct {
	ID      string
	Vectors map[string]plan.Vector
	Payload map[string]any
}

// Scored is a retrieved record with its ranking score. Filter-only
// scans report a constant score of 1.
type Scored struct {
	ID      string
	Score   float64
	Payload map[string]any
}
