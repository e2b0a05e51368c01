// Package filter turns loosely-typed attribute filter maps into typed,
// index-facing predicates. User filters are always conjoined with a
// baseline constraint that gates eligibility for the whole corpus.
package filter

import (
	"encoding/json"
	"strconv"
	"strings"
)

// EntryKind classifies a canonical filter entry.
type EntryKind string

const (
	// KindSet is a set-membership constraint (match any value).
	KindSet EntryKind = "set"
	// KindMin is a lower range bound (inclusive).
	KindMin EntryKind = "min"
	// KindMax is an upper range bound (inclusive).
	KindMax EntryKind = "max"
)

type keySpec struct {
	key  string
	attr string
	kind EntryKind
}

// recognizedKeys is the closed filter key table, in canonical order.
// Range keys bind one half-open bound each; set keys map the plural API
// name onto the payload attribute. Unknown keys are ignored.
var recognizedKeys = []keySpec{
	{"min_age", "age", KindMin},
	{"max_age", "age", KindMax},
	{"min_height", "height", KindMin},
	{"max_height", "height", KindMax},
	{"min_income", "annual_income", KindMin},
	{"max_income", "annual_income", KindMax},

	{"genders", "gender", KindSet},
	{"religions", "religion", KindSet},
	{"locations", "current_location", KindSet},
	{"marital_statuses", "marital_status", KindSet},
	{"family_types", "family_type", KindSet},
	{"food_habits", "food_habits", KindSet},
	{"smoking", "smoking", KindSet},
	{"drinking", "drinking", KindSet},
	{"religiosity", "religiosity", KindSet},
	{"fitness", "fitness", KindSet},
	{"intent", "intent", KindSet},
}

// Entry is one surviving canonical filter: an API key bound to a payload
// attribute with either set values or a single range bound.
type Entry struct {
	key    string
	attr   string
	kind   EntryKind
	values []string
	bound  int64
}

// Key returns the API filter key (e.g. "genders", "min_age").
func (e Entry) Key() string { return e.key }

// Attr returns the payload attribute the entry constrains.
func (e Entry) Attr() string { return e.attr }

// Kind returns the entry kind.
func (e Entry) Kind() EntryKind { return e.kind }

// Values returns the set values (set entries only).
func (e Entry) Values() []string { return e.values }

// Bound returns the range bound (min/max entries only).
func (e Entry) Bound() int64 { return e.bound }

// Value returns the normalized value for response echoes: a string slice
// for set entries, an integer for range bounds.
func (e Entry) Value() any {
	if e.kind == KindSet {
		return e.values
	}
	return e.bound
}

// DisplayValue renders the value for human-readable diagnostics.
func (e Entry) DisplayValue() string {
	if e.kind == KindSet {
		return strings.Join(e.values, ", ")
	}
	return strconv.FormatInt(e.bound, 10)
}

// Criteria is the normalized filter set, ordered by the canonical key
// table so downstream predicates and diagnostics are deterministic.
type Criteria struct {
	entries []Entry
}

// Normalize validates a raw filter map against the canonical key table.
// Uncoercible range values and empty set values are dropped silently;
// unknown keys are ignored.
func Normalize(raw map[string]any) Criteria {
	if len(raw) == 0 {
		return Criteria{}
	}

	var entries []Entry
	for _, spec := range recognizedKeys {
		value, present := raw[spec.key]
		if !present || value == nil {
			continue
		}

		switch spec.kind {
		case KindSet:
			values := coerceStrings(value)
			if len(values) == 0 {
				continue
			}
			entries = append(entries, Entry{
				key: spec.key, attr: spec.attr, kind: spec.kind, values: values,
			})
		case KindMin, KindMax:
			bound, ok := coerceInt(value)
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				key: spec.key, attr: spec.attr, kind: spec.kind, bound: bound,
			})
		}
	}
	return Criteria{entries: entries}
}

// Entries returns the canonical entries in order.
func (c Criteria) Entries() []Entry { return c.entries }

// Entry returns the surviving entry for the given API key.
func (c Criteria) Entry(key string) (Entry, bool) {
	for _, e := range c.entries {
		if e.key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the number of surviving entries.
func (c Criteria) Len() int { return len(c.entries) }

// IsEmpty reports whether no entries survived normalization.
func (c Criteria) IsEmpty() bool { return len(c.entries) == 0 }

// Without returns a copy with the entry for the given API key removed.
func (c Criteria) Without(key string) Criteria {
	if c.IsEmpty() {
		return Criteria{}
	}
	kept := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.key != key {
			kept = append(kept, e)
		}
	}
	return Criteria{entries: kept}
}

// Applied echoes the normalized filters as a plain map for responses.
func (c Criteria) Applied() map[string]any {
	out := make(map[string]any, len(c.entries))
	for _, e := range c.entries {
		out[e.key] = e.Value()
	}
	return out
}

// coerceInt accepts integers, floats (truncated) and integer strings.
// Anything else, including fractional strings, fails coercion.
func coerceInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// coerceStrings promotes a scalar to a single-element set and drops empty
// elements from collections.
func coerceStrings(v any) []string {
	switch vv := v.(type) {
	case string:
		if vv == "" {
			return nil
		}
		return []string{vv}
	case []string:
		var out []string
		for _, s := range vv {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		var out []string
		for _, item := range vv {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
