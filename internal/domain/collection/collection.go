// Package collection fixes the index collection schema: the named vector
// spaces with their dimensions and providers, and the payload attributes
// that carry filter indexes.
package collection

// DefaultName is the collection the service operates on unless configured
// otherwise.
const DefaultName = "matrimonial_profiles"

// Provider labels used in observability output.
const (
	ProviderOpenAI  = "openai"
	ProviderColbert = "colbert"
)

// Info summarizes live collection state for diagnostics.
type Info struct {
	Name         string
	PointsCount  uint64
	VectorsCount uint64
	Status       string
}

// Space is one named vector space of the collection.
type Space struct {
	name     string
	provider string
	dim      int
	multi    bool
}

// Name returns the vector space name.
func (s Space) Name() string { return s.name }

// Provider returns the embedding provider label.
func (s Space) Provider() string { return s.provider }

// Dim returns the vector dimension.
func (s Space) Dim() int { return s.dim }

// IsMulti reports whether the space stores one vector per token, scored by
// a max-similarity comparator.
func (s Space) IsMulti() bool { return s.multi }

// Label renders the observability form "name(provider)".
func (s Space) Label() string { return s.name + "(" + s.provider + ")" }

var spaces = []Space{
	{name: "education", provider: ProviderOpenAI, dim: 1536},
	{name: "profession", provider: ProviderOpenAI, dim: 1536},
	{name: "vibe_report", provider: ProviderColbert, dim: 1024, multi: true},
}

// Spaces returns the vector spaces in canonical order: dense structured
// fields first, the late-interaction narrative field last. Planners rely
// on this order for primary vector selection.
func Spaces() []Space {
	out := make([]Space, len(spaces))
	copy(out, spaces)
	return out
}

// SpaceByName looks up a vector space.
func SpaceByName(name string) (Space, bool) {
	for _, s := range spaces {
		if s.name == name {
			return s, true
		}
	}
	return Space{}, false
}

// IntegerIndexAttrs returns the payload attributes indexed for range
// filtering.
func IntegerIndexAttrs() []string {
	return []string{"age", "height", "annual_income"}
}

// KeywordIndexAttrs returns the payload attributes indexed for exact and
// any-of matching.
func KeywordIndexAttrs() []string {
	return []string{
		"id", "gender", "religion", "current_location",
		"marital_status", "family_type", "food_habits",
		"smoking", "drinking", "religiosity", "fitness", "intent",
		"caste", "open_to_children",
	}
}
