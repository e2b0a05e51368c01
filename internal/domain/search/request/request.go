package request

import "fmt"

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed natural-language query length.
	MaxQueryLength = 4096
	DefaultLimit   = 100
	MaxLimit       = 200
)

// Parsed per-field semantic query keys.
const (
	KeyEducationQuery  = "education_query"
	KeyProfessionQuery = "profession_query"
	KeyVibeReportQuery = "vibe_report_query"
)

// Request is a validated search request. A raw query triggers auto-parse
// when no parsed queries are supplied; filters ride alongside either way.
type Request struct {
	query                 string
	parsedQueries         map[string]string
	filters               map[string]any
	limit                 int
	offset                int
	scoreThreshold        float64
	skipIDs               []string
	includeFilterAnalysis bool
}

// New validates and normalizes search parameters.
// Defaults: limit=100 (clamped to 200), offset>=0.
func New(
	query string,
	parsedQueries map[string]string,
	filters map[string]any,
	limit, offset int,
	scoreThreshold float64,
	skipIDs []string,
	includeFilterAnalysis bool,
) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	if scoreThreshold < 0 || scoreThreshold > 1 {
		return Request{}, fmt.Errorf("score_threshold must be between 0 and 1")
	}

	return Request{
		query:                 query,
		parsedQueries:         parsedQueries,
		filters:               filters,
		limit:                 limit,
		offset:                offset,
		scoreThreshold:        scoreThreshold,
		skipIDs:               skipIDs,
		includeFilterAnalysis: includeFilterAnalysis,
	}, nil
}

// Query returns the raw natural-language query, empty when not supplied.
func (r *Request) Query() string { return r.query }

// ParsedQueries returns the supplied per-field semantic queries, nil when
// the caller expects auto-parsing.
func (r *Request) ParsedQueries() map[string]string { return r.parsedQueries }

// HasParsedQueries reports whether the caller supplied parsed queries.
func (r *Request) HasParsedQueries() bool { return len(r.parsedQueries) > 0 }

// Filters returns the raw filter map.
func (r *Request) Filters() map[string]any { return r.filters }

// Limit returns the result page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the result page offset.
func (r *Request) Offset() int { return r.offset }

// ScoreThreshold returns the minimum score, 0 meaning unset.
func (r *Request) ScoreThreshold() float64 { return r.scoreThreshold }

// SkipIDs returns the external profile ids to exclude.
func (r *Request) SkipIDs() []string { return r.skipIDs }

// IncludeFilterAnalysis reports whether filter impact analysis was asked for.
func (r *Request) IncludeFilterAnalysis() bool { return r.includeFilterAnalysis }
