package search

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/domain/analysis"
	"github.com/kailas-cloud/matchdex/internal/domain/collection"
	"github.com/kailas-cloud/matchdex/internal/domain/filter"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/domain/profile"
	"github.com/kailas-cloud/matchdex/internal/domain/search/request"
	"github.com/kailas-cloud/matchdex/internal/domain/search/result"
)

// EmbeddingModel labels the provider pair serving all semantic queries.
const EmbeddingModel = "openai+colbert"

// EmptySearchError is returned inside the response envelope when neither
// semantic queries nor filters survive normalization.
const EmptySearchError = "Provide either a semantic query or filters"

// Response is the assembled search envelope.
type Response struct {
	Query          string
	Parsed         map[string]string
	Results        []result.Hit
	TotalCount     uint64
	QueryMode      plan.Mode
	VectorsUsed    []string
	FiltersApplied map[string]any
	SearchTimeMs   float64
	EmbeddingModel string
	FilterAnalysis *analysis.Analysis
	Error          string
}

// Service handles profile search across semantic and filter-only modes.
type Service struct {
	repo     Repository
	parser   Parser
	dense    DenseEmbedder
	multi    MultiEmbedder
	analyzer Analyzer
}

// New creates a search service.
func New(repo Repository, parser Parser, dense DenseEmbedder, multi MultiEmbedder, analyzer Analyzer) *Service {
	return &Service{repo: repo, parser: parser, dense: dense, multi: multi, analyzer: analyzer}
}

// Search executes a profile search. A raw query without parsed queries is
// auto-parsed first; parsed filters are merged under explicit request
// filters. The exact total is counted with the full predicate, so skipped
// ids never inflate it.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	start := time.Now()

	parsedQueries := req.ParsedQueries()
	filters := req.Filters()

	if req.Query() != "" && !req.HasParsedQueries() {
		parsed, err := s.parser.Parse(ctx, req.Query())
		if err != nil {
			return Response{}, err
		}
		parsedQueries = parsed.SemanticQueries()
		filters = mergeFilters(parsed.Filters, req.Filters())
	}

	queries := vectorQueries(parsedQueries)
	criteria := filter.Normalize(filters)

	if len(queries) == 0 && criteria.IsEmpty() {
		return Response{
			Query:          req.Query(),
			Parsed:         parsedQueries,
			Results:        []result.Hit{},
			QueryMode:      plan.ModeEmpty,
			VectorsUsed:    []string{},
			FiltersApplied: map[string]any{},
			EmbeddingModel: EmbeddingModel,
			Error:          EmptySearchError,
		}, nil
	}

	vectors, err := s.vectorize(ctx, queries)
	if err != nil {
		return Response{}, err
	}

	predicate := criteria.PredicateWithBaseline(skipPointIDs(req.SkipIDs())...)
	p := plan.Build(vectors, predicate, req.Limit(), req.Offset(), req.ScoreThreshold())

	hits, err := s.repo.Search(ctx, p)
	if err != nil {
		return Response{}, fmt.Errorf("retrieve profiles: %w", err)
	}

	total, err := s.repo.Count(ctx, predicate)
	if err != nil {
		return Response{}, fmt.Errorf("count matches: %w", err)
	}

	var filterAnalysis *analysis.Analysis
	if req.IncludeFilterAnalysis() && !criteria.IsEmpty() {
		report, err := s.analyzer.Analyze(ctx, criteria)
		if err != nil {
			return Response{}, fmt.Errorf("analyze filters: %w", err)
		}
		filterAnalysis = &report
	}

	return Response{
		Query:          req.Query(),
		Parsed:         parsedQueries,
		Results:        hits,
		TotalCount:     total,
		QueryMode:      p.Mode(),
		VectorsUsed:    p.VectorsUsed(),
		FiltersApplied: criteria.Applied(),
		SearchTimeMs:   elapsedMs(start),
		EmbeddingModel: EmbeddingModel,
		FilterAnalysis: filterAnalysis,
	}, nil
}

// vectorize embeds the per-field queries: one batch call covers every
// dense field, the late-interaction field gets its own call.
func (s *Service) vectorize(ctx context.Context, queries map[string]string) (map[string]plan.Vector, error) {
	vectors := make(map[string]plan.Vector, len(queries))

	var denseFields, denseTexts []string
	for _, space := range collection.Spaces() {
		text, ok := queries[space.Name()]
		if !ok {
			continue
		}
		if space.IsMulti() {
			res, err := s.multi.EmbedMulti(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("vectorize %s query: %w", space.Name(), err)
			}
			domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
			vectors[space.Name()] = plan.Multi(res.Vectors)
			continue
		}
		denseFields = append(denseFields, space.Name())
		denseTexts = append(denseTexts, text)
	}

	if len(denseTexts) > 0 {
		res, err := s.dense.BatchEmbed(ctx, denseTexts)
		if err != nil {
			return nil, fmt.Errorf("vectorize structured queries: %w", err)
		}
		if len(res.Embeddings) != len(denseTexts) {
			return nil, fmt.Errorf("vectorize structured queries: got %d embeddings for %d texts",
				len(res.Embeddings), len(denseTexts))
		}
		domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
		for i, field := range denseFields {
			vectors[field] = plan.Dense(res.Embeddings[i])
		}
	}

	return vectors, nil
}

// queryFields maps request query keys onto vector space names.
var queryFields = []struct {
	key   string
	field string
}{
	{request.KeyEducationQuery, profile.VectorEducation},
	{request.KeyProfessionQuery, profile.VectorProfession},
	{request.KeyVibeReportQuery, profile.VectorVibeReport},
}

// vectorQueries trims the per-field queries and keys the survivors by
// vector space name.
func vectorQueries(parsed map[string]string) map[string]string {
	queries := make(map[string]string, len(queryFields))
	for _, qf := range queryFields {
		if text := strings.TrimSpace(parsed[qf.key]); text != "" {
			queries[qf.field] = text
		}
	}
	return queries
}

// mergeFilters overlays explicit request filters onto parsed ones;
// request values win per key.
func mergeFilters(parsed, explicit map[string]any) map[string]any {
	if len(parsed) == 0 {
		return explicit
	}
	merged := make(map[string]any, len(parsed)+len(explicit))
	for k, v := range parsed {
		merged[k] = v
	}
	for k, v := range explicit {
		merged[k] = v
	}
	return merged
}

func skipPointIDs(externalIDs []string) []string {
	if len(externalIDs) == 0 {
		return nil
	}
	ids := make([]string, len(externalIDs))
	for i, id := range externalIDs {
		ids[i] = profile.PointID(id)
	}
	return ids
}

func elapsedMs(start time.Time) float64 {
	ms := float64(time.Since(start).Microseconds()) / 1000
	return math.Round(ms*100) / 100
}
