// Package impact measures how much each active filter narrows the result
// set and proposes which filters to relax when matches run thin.
package impact

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/matchdex/internal/domain/analysis"
	"github.com/kailas-cloud/matchdex/internal/domain/filter"
)

// DefaultMinResults is the target match count below which expansion
// suggestions are produced.
const DefaultMinResults = 10

// Service computes filter impact breakdowns via exact index counts.
type Service struct {
	counter Counter
}

func New(counter Counter) *Service {
	return &Service{counter: counter}
}

// Analyze counts the eligible corpus with and without each filter in turn.
// All counts carry the eligibility baseline, so the numbers describe the
// searchable corpus rather than the raw collection.
func (s *Service) Analyze(ctx context.Context, criteria filter.Criteria) (analysis.Analysis, error) {
	total, err := s.counter.Count(ctx, filter.BuildWithBaseline(nil))
	if err != nil {
		return analysis.Analysis{}, fmt.Errorf("count baseline: %w", err)
	}
	if criteria.IsEmpty() {
		return analysis.Analysis{
			Impacts:             []analysis.Impact{},
			Recommendations:     []string{},
			TotalWithoutFilters: total,
			CurrentCount:        total,
		}, nil
	}

	current, err := s.counter.Count(ctx, criteria.PredicateWithBaseline())
	if err != nil {
		return analysis.Analysis{}, fmt.Errorf("count with all filters: %w", err)
	}

	impacts := make([]analysis.Impact, 0, criteria.Len())
	for _, entry := range criteria.Entries() {
		remaining := criteria.Without(entry.Key())

		var without uint64
		if remaining.IsEmpty() {
			// Removing the only filter leaves the baseline count.
			without = total
		} else {
			without, err = s.counter.Count(ctx, remaining.PredicateWithBaseline())
			if err != nil {
				return analysis.Analysis{}, fmt.Errorf("count without %s: %w", entry.Key(), err)
			}
		}

		removed := int64(without) - int64(current)
		var pct float64
		if without > 0 {
			pct = round1(float64(removed) / float64(without) * 100)
		}
		impacts = append(impacts, analysis.Impact{
			Filter:           entry.Key(),
			Value:            entry.Value(),
			CountWith:        current,
			CountWithout:     without,
			RemovedCount:     removed,
			ImpactPercentage: pct,
		})
	}

	sort.SliceStable(impacts, func(i, j int) bool {
		return impacts[i].RemovedCount > impacts[j].RemovedCount
	})

	return analysis.Analysis{
		Impacts:             impacts,
		Recommendations:     recommend(criteria, impacts, current),
		TotalWithoutFilters: total,
		CurrentCount:        current,
	}, nil
}

// SuggestExpansions greedily picks filters to remove, most restrictive
// first, until the projected count reaches minResults. A non-positive
// minResults falls back to DefaultMinResults.
func (s *Service) SuggestExpansions(ctx context.Context, criteria filter.Criteria, minResults int) ([]analysis.Suggestion, error) {
	if minResults <= 0 {
		minResults = DefaultMinResults
	}
	report, err := s.Analyze(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if report.CurrentCount >= uint64(minResults) {
		return []analysis.Suggestion{}, nil
	}

	suggestions := []analysis.Suggestion{}
	cumulative := report.CurrentCount
	for _, impact := range report.Impacts {
		if cumulative >= uint64(minResults) {
			break
		}
		// Dropping filters is not additive, so the projection jumps to
		// the single-removal count rather than summing removals.
		if impact.CountWithout > cumulative {
			suggestions = append(suggestions, analysis.Suggestion{
				Action:        "remove",
				Filter:        impact.Filter,
				ExpectedCount: impact.CountWithout,
			})
			cumulative = impact.CountWithout
		}
	}
	return suggestions, nil
}

func recommend(criteria filter.Criteria, impacts []analysis.Impact, current uint64) []string {
	recommendations := []string{}
	switch {
	case current == 0 && len(impacts) > 0:
		// No results: name the single most restrictive filter.
		top := impacts[0]
		if entry, ok := criteria.Entry(top.Filter); ok {
			recommendations = append(recommendations, fmt.Sprintf(
				"Try removing the '%s' filter (currently set to %s) - this would show %d profiles",
				top.Filter, entry.DisplayValue(), top.CountWithout))
		}
	case current < DefaultMinResults:
		// Few results: flag the two most restrictive filters when each
		// removes over half the potential matches.
		top := impacts
		if len(top) > 2 {
			top = top[:2]
		}
		for _, impact := range top {
			if impact.ImpactPercentage > 50 {
				recommendations = append(recommendations, fmt.Sprintf(
					"The '%s' filter is removing %.1f%% of potential matches",
					impact.Filter, impact.ImpactPercentage))
			}
		}
	}
	return recommendations
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
