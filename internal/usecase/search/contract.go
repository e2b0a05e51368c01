package search

import (
	"context"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/domain/analysis"
	"github.com/kailas-cloud/matchdex/internal/domain/filter"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/domain/search/result"
)

// Repository executes retrieval plans and exact counts against the index.
type Repository interface {
	Search(ctx context.Context, p plan.Plan) ([]result.Hit, error)
	Count(ctx context.Context, predicate filter.Predicate) (uint64, error)
}

// Parser resolves a natural-language query into filters plus per-field
// semantic queries.
type Parser interface {
	Parse(ctx context.Context, query string) (domain.ParsedQuery, error)
}

// DenseEmbedder vectorizes the structured-field queries in one call.
type DenseEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// MultiEmbedder produces the late-interaction query token matrix.
type MultiEmbedder interface {
	EmbedMulti(ctx context.Context, text string) (domain.MultiEmbeddingResult, error)
}

// Analyzer computes the per-filter impact breakdown.
type Analyzer interface {
	Analyze(ctx context.Context, criteria filter.Criteria) (analysis.Analysis, error)
}
