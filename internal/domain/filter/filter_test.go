package filter

import (
	"reflect"
	"testing"
)

func TestNormalize_Empty(t *testing.T) {
	if !Normalize(nil).IsEmpty() {
		t.Error("Normalize(nil) not empty")
	}
	if !Normalize(map[string]any{}).IsEmpty() {
		t.Error("Normalize({}) not empty")
	}
}

func TestNormalize_RangeCoercion(t *testing.T) {
	c := Normalize(map[string]any{
		"min_age":    25,
		"max_age":    "30",
		"min_height": 62.0,
		"max_income": float64(5000000),
	})
	if c.Len() != 4 {
		t.Fatalf("Len = %d, want 4: %+v", c.Len(), c.Applied())
	}
	for _, e := range c.Entries() {
		if e.Kind() == KindSet {
			t.Errorf("entry %q unexpectedly a set", e.Key())
		}
	}

	byKey := map[string]int64{}
	for _, e := range c.Entries() {
		byKey[e.Key()] = e.Bound()
	}
	want := map[string]int64{"min_age": 25, "max_age": 30, "min_height": 62, "max_income": 5000000}
	if !reflect.DeepEqual(byKey, want) {
		t.Errorf("bounds = %v, want %v", byKey, want)
	}
}

func TestNormalize_UncoercibleRangeDropped(t *testing.T) {
	c := Normalize(map[string]any{
		"min_age": "abc",
		"max_age": 30,
	})
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if c.Entries()[0].Key() != "max_age" {
		t.Errorf("surviving key = %q, want max_age", c.Entries()[0].Key())
	}
}

func TestNormalize_FractionalStringDropped(t *testing.T) {
	c := Normalize(map[string]any{"min_age": "25.5"})
	if !c.IsEmpty() {
		t.Error("fractional string coerced, want dropped")
	}
}

func TestNormalize_ScalarPromotedToSet(t *testing.T) {
	c := Normalize(map[string]any{"genders": "female"})
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	e := c.Entries()[0]
	if e.Kind() != KindSet || e.Attr() != "gender" {
		t.Errorf("entry = kind %q attr %q", e.Kind(), e.Attr())
	}
	if !reflect.DeepEqual(e.Values(), []string{"female"}) {
		t.Errorf("Values = %v", e.Values())
	}
}

func TestNormalize_SetVariants(t *testing.T) {
	c := Normalize(map[string]any{
		"religions": []string{"HI", "", "SI"},
		"locations": []any{"Bangalore", "Mumbai"},
	})
	byKey := map[string][]string{}
	for _, e := range c.Entries() {
		byKey[e.Key()] = e.Values()
	}
	if !reflect.DeepEqual(byKey["religions"], []string{"HI", "SI"}) {
		t.Errorf("religions = %v", byKey["religions"])
	}
	if !reflect.DeepEqual(byKey["locations"], []string{"Bangalore", "Mumbai"}) {
		t.Errorf("locations = %v", byKey["locations"])
	}
}

func TestNormalize_EmptyValuesDropped(t *testing.T) {
	c := Normalize(map[string]any{
		"genders":   "",
		"religions": []string{},
		"locations": nil,
		"min_age":   nil,
	})
	if !c.IsEmpty() {
		t.Errorf("Len = %d, want 0: %v", c.Len(), c.Applied())
	}
}

func TestNormalize_UnknownKeysIgnored(t *testing.T) {
	c := Normalize(map[string]any{
		"favorite_color": "blue",
		"min_age":        25,
	})
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestNormalize_PayloadAttrMapping(t *testing.T) {
	c := Normalize(map[string]any{
		"marital_statuses": "never_married",
		"family_types":     "nuclear",
		"food_habits":      "VEG",
		"locations":        "IN_MB",
		"min_income":       20,
	})
	attrs := map[string]string{}
	for _, e := range c.Entries() {
		attrs[e.Key()] = e.Attr()
	}
	want := map[string]string{
		"marital_statuses": "marital_status",
		"family_types":     "family_type",
		"food_habits":      "food_habits",
		"locations":        "current_location",
		"min_income":       "annual_income",
	}
	if !reflect.DeepEqual(attrs, want) {
		t.Errorf("attrs = %v, want %v", attrs, want)
	}
}

func TestNormalize_CanonicalOrder(t *testing.T) {
	c := Normalize(map[string]any{
		"genders": "female",
		"min_age": 25,
		"max_age": 30,
	})
	keys := make([]string, 0, c.Len())
	for _, e := range c.Entries() {
		keys = append(keys, e.Key())
	}
	if !reflect.DeepEqual(keys, []string{"min_age", "max_age", "genders"}) {
		t.Errorf("order = %v", keys)
	}
}

func TestWithout(t *testing.T) {
	c := Normalize(map[string]any{"min_age": 25, "genders": "female"})
	rest := c.Without("min_age")
	if rest.Len() != 1 || rest.Entries()[0].Key() != "genders" {
		t.Errorf("Without(min_age) = %v", rest.Applied())
	}
	if c.Len() != 2 {
		t.Error("Without mutated the receiver")
	}
	if !c.Without("min_age").Without("genders").IsEmpty() {
		t.Error("removing every key did not empty the criteria")
	}
}

func TestApplied(t *testing.T) {
	c := Normalize(map[string]any{"min_age": "25", "genders": []string{"female"}})
	got := c.Applied()
	want := map[string]any{"min_age": int64(25), "genders": []string{"female"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Applied = %v, want %v", got, want)
	}
}

func TestEntry_DisplayValue(t *testing.T) {
	c := Normalize(map[string]any{"min_age": 25, "genders": []string{"female", "male"}})
	display := map[string]string{}
	for _, e := range c.Entries() {
		display[e.Key()] = e.DisplayValue()
	}
	if display["min_age"] != "25" {
		t.Errorf("min_age display = %q", display["min_age"])
	}
	if display["genders"] != "female, male" {
		t.Errorf("genders display = %q", display["genders"])
	}
}
