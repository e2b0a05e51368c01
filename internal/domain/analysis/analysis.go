// Package analysis carries filter impact breakdowns shared between the
// analyzer, search responses and the HTTP layer.
package analysis

// Impact describes the effect of a single filter on the result count.
type Impact struct {
	Filter           string
	Value            any
	CountWith        uint64
	CountWithout     uint64
	RemovedCount     int64
	ImpactPercentage float64
}

// Analysis is the full per-filter breakdown for one set of criteria.
type Analysis struct {
	Impacts             []Impact
	Recommendations     []string
	TotalWithoutFilters uint64
	CurrentCount        uint64
}

// Suggestion proposes dropping one filter to widen the result set.
type Suggestion struct {
	Action        string
	Filter        string
	ExpectedCount uint64
}
