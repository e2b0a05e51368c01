// Package plan builds retrieval plans: either a filter-only scan or a
// semantic query combining per-field candidate generation with a single
// primary ranking vector.
package plan

import (
	"github.com/kailas-cloud/matchdex/internal/domain/collection"
	"github.com/kailas-cloud/matchdex/internal/domain/filter"
)

// Mode is the retrieval strategy.
type Mode string

const (
	// ModeFilterOnly scans by predicate without semantic ranking.
	ModeFilterOnly Mode = "filter_only"
	// ModeSemantic ranks candidates generated per semantic field.
	ModeSemantic Mode = "semantic_search"
	// ModeEmpty marks a request with neither queries nor filters.
	ModeEmpty Mode = "empty"
)

// Vector holds either a dense embedding or a per-token vector sequence.
type Vector struct {
	dense []float32
	multi [][]float32
}

// Dense wraps a dense embedding.
func Dense(v []float32) Vector { return Vector{dense: v} }

// Multi wraps a late-interaction vector sequence.
func Multi(vs [][]float32) Vector { return Vector{multi: vs} }

// IsMulti reports whether this is a vector sequence.
func (v Vector) IsMulti() bool { return v.multi != nil }

// DenseValues returns the dense embedding.
func (v Vector) DenseValues() []float32 { return v.dense }

// MultiValues returns the vector sequence.
func (v Vector) MultiValues() [][]float32 { return v.multi }

// Candidate is one candidate-generation sub-request against a named
// vector space.
type Candidate struct {
	field  string
	vector Vector
	limit  int
}

// Field returns the vector space name.
func (c Candidate) Field() string { return c.field }

// Vector returns the query vector.
func (c Candidate) Vector() Vector { return c.vector }

// Limit returns the candidate generation limit.
func (c Candidate) Limit() int { return c.limit }

// Plan is a complete retrieval plan. Constructed fresh per request.
type Plan struct {
	mode           Mode
	candidates     []Candidate
	primaryField   string
	primaryVector  Vector
	predicate      filter.Predicate
	limit          int
	offset         int
	scoreThreshold float64
	vectorsUsed    []string
}

// Build constructs a retrieval plan. With no field vectors the plan is a
// filter-only scan. Otherwise one candidate sub-request is built per
// present field in canonical space order, each generating limit+offset
// candidates so pagination never under-fetches. The primary ranking
// vector is the first present dense field, falling back to the
// late-interaction field when no dense field is present.
func Build(
	vectors map[string]Vector,
	predicate filter.Predicate,
	limit, offset int,
	scoreThreshold float64,
) Plan {
	p := Plan{
		predicate:      predicate,
		limit:          limit,
		offset:         offset,
		scoreThreshold: scoreThreshold,
	}

	if len(vectors) == 0 {
		p.mode = ModeFilterOnly
		return p
	}

	p.mode = ModeSemantic
	for _, space := range collection.Spaces() {
		v, ok := vectors[space.Name()]
		if !ok {
			continue
		}
		p.candidates = append(p.candidates, Candidate{
			field:  space.Name(),
			vector: v,
			limit:  limit + offset,
		})
		p.vectorsUsed = append(p.vectorsUsed, space.Label())

		if p.primaryField == "" && !space.IsMulti() {
			p.primaryField = space.Name()
			p.primaryVector = v
		}
	}

	if p.primaryField == "" {
		for _, space := range collection.Spaces() {
			if v, ok := vectors[space.Name()]; ok && space.IsMulti() {
				p.primaryField = space.Name()
				p.primaryVector = v
				break
			}
		}
	}

	if len(p.candidates) == 0 {
		p.mode = ModeFilterOnly
	}
	return p
}

// Mode returns the retrieval strategy.
func (p Plan) Mode() Mode { return p.mode }

// Candidates returns the candidate-generation sub-requests in canonical
// field order.
func (p Plan) Candidates() []Candidate { return p.candidates }

// PrimaryField returns the vector space ranking the final results.
func (p Plan) PrimaryField() string { return p.primaryField }

// PrimaryVector returns the primary ranking vector.
func (p Plan) PrimaryVector() Vector { return p.primaryVector }

// Predicate returns the active predicate, shared by every candidate
// sub-request and the primary query.
func (p Plan) Predicate() filter.Predicate { return p.predicate }

// Limit returns the result page size.
func (p Plan) Limit() int { return p.limit }

// Offset returns the result page offset.
func (p Plan) Offset() int { return p.offset }

// ScoreThreshold returns the minimum score, 0 meaning unset.
func (p Plan) ScoreThreshold() float64 { return p.scoreThreshold }

// VectorsUsed returns the observability labels of contributing fields.
func (p Plan) VectorsUsed() []string {
	if p.vectorsUsed == nil {
		return []string{}
	}
	return p.vectorsUsed
}
