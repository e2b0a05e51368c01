package filter

import "fmt"

// Baseline attribute names. The baseline predicate is the eligibility gate
// for the whole corpus, not a user preference, and is never bypassable.
const (
	attrCirculateable = "is_circulateable"
	attrPaused        = "is_paused"
	attrTestLead      = "test_lead"
)

// CondKind tags the condition variants.
type CondKind string

const (
	// CondAnyOf matches records whose attribute equals any listed value.
	CondAnyOf CondKind = "any_of"
	// CondBool matches records whose attribute equals a boolean value.
	CondBool CondKind = "bool"
	// CondRange matches records whose attribute lies within integer bounds.
	CondRange CondKind = "range"
	// CondHasID matches records by point id.
	CondHasID CondKind = "has_id"
)

// Condition is a single predicate clause over one attribute.
type Condition struct {
	kind    CondKind
	attr    string
	values  []string
	boolVal bool
	rng     Range
	ids     []string
}

// Range is an inclusive integer range; nil bounds are open.
type Range struct {
	gte *int64
	lte *int64
}

// GTE returns the inclusive lower bound.
func (r Range) GTE() *int64 { return r.gte }

// LTE returns the inclusive upper bound.
func (r Range) LTE() *int64 { return r.lte }

// NewAnyOf creates a set-membership condition.
func NewAnyOf(attr string, values []string) (Condition, error) {
	if attr == "" {
		return Condition{}, fmt.Errorf("condition attribute is required")
	}
	if len(values) == 0 {
		return Condition{}, fmt.Errorf("any-of condition for %q needs at least one value", attr)
	}
	return Condition{kind: CondAnyOf, attr: attr, values: values}, nil
}

// NewBool creates a boolean match condition.
func NewBool(attr string, value bool) (Condition, error) {
	if attr == "" {
		return Condition{}, fmt.Errorf("condition attribute is required")
	}
	return Condition{kind: CondBool, attr: attr, boolVal: value}, nil
}

// NewRange creates an integer range condition with at least one bound.
func NewRange(attr string, gte, lte *int64) (Condition, error) {
	if attr == "" {
		return Condition{}, fmt.Errorf("condition attribute is required")
	}
	if gte == nil && lte == nil {
		return Condition{}, fmt.Errorf("range condition for %q needs at least one bound", attr)
	}
	return Condition{kind: CondRange, attr: attr, rng: Range{gte: gte, lte: lte}}, nil
}

// NewHasID creates a point id membership condition.
func NewHasID(pointIDs []string) (Condition, error) {
	if len(pointIDs) == 0 {
		return Condition{}, fmt.Errorf("has-id condition needs at least one id")
	}
	return Condition{kind: CondHasID, ids: pointIDs}, nil
}

// Kind returns the condition variant.
func (c Condition) Kind() CondKind { return c.kind }

// Attr returns the constrained attribute.
func (c Condition) Attr() string { return c.attr }

// Values returns the any-of values.
func (c Condition) Values() []string { return c.values }

// Bool returns the boolean match value.
func (c Condition) Bool() bool { return c.boolVal }

// Range returns the integer range.
func (c Condition) Range() Range { return c.rng }

// IDs returns the point ids of a has-id condition.
func (c Condition) IDs() []string { return c.ids }

// Predicate is a conjunction of must conditions and negated must-not
// conditions, ready for index translation.
type Predicate struct {
	must    []Condition
	mustNot []Condition
}

// Must returns the must conditions.
func (p Predicate) Must() []Condition { return p.must }

// MustNot returns the must-not conditions.
func (p Predicate) MustNot() []Condition { return p.mustNot }

// IsEmpty reports whether the predicate has no conditions.
func (p Predicate) IsEmpty() bool { return len(p.must) == 0 && len(p.mustNot) == 0 }

// Predicate converts the criteria into user filter conditions only.
// ok is false when no conditions survived normalization.
func (c Criteria) Predicate() (Predicate, bool) {
	if c.IsEmpty() {
		return Predicate{}, false
	}
	return Predicate{must: c.conditions()}, true
}

// PredicateWithBaseline conjoins the baseline constraint with the user
// filters: eligible records only, paused and test records excluded.
// Caller conditions on the same attributes are retained alongside the
// baseline, not deduplicated. Optional point ids are excluded by id.
func (c Criteria) PredicateWithBaseline(skipPointIDs ...string) Predicate {
	must := []Condition{mustBool(attrCirculateable, true)}
	must = append(must, c.conditions()...)

	mustNot := []Condition{
		mustBool(attrPaused, true),
		mustBool(attrTestLead, true),
	}
	if len(skipPointIDs) > 0 {
		skip, err := NewHasID(skipPointIDs)
		if err == nil {
			mustNot = append(mustNot, skip)
		}
	}

	return Predicate{must: must, mustNot: mustNot}
}

// Build normalizes a raw filter map into user filter conditions only.
func Build(raw map[string]any) (Predicate, bool) {
	return Normalize(raw).Predicate()
}

// BuildWithBaseline normalizes a raw filter map and conjoins the baseline.
func BuildWithBaseline(raw map[string]any) Predicate {
	return Normalize(raw).PredicateWithBaseline()
}

func (c Criteria) conditions() []Condition {
	conditions := make([]Condition, 0, len(c.entries))
	for _, e := range c.entries {
		switch e.kind {
		case KindSet:
			cond, err := NewAnyOf(e.attr, e.values)
			if err == nil {
				conditions = append(conditions, cond)
			}
		case KindMin:
			bound := e.bound
			cond, err := NewRange(e.attr, &bound, nil)
			if err == nil {
				conditions = append(conditions, cond)
			}
		case KindMax:
			bound := e.bound
			cond, err := NewRange(e.attr, nil, &bound)
			if err == nil {
				conditions = append(conditions, cond)
			}
		}
	}
	return conditions
}

func mustBool(attr string, value bool) Condition {
	cond, _ := NewBool(attr, value)
	return cond
}
