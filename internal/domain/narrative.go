package domain

// NarrativePhoto is one photo handed to the narrative generator.
type NarrativePhoto struct {
	ID  string
	URL string
}

// NarrativeInput is the profile material a narrative is synthesized from.
// Photo identity (not URL) participates in change detection: URLs rotate,
// the underlying photos do not.
type NarrativeInput struct {
	Education  string
	Profession string
	Interests  []string
	Blurb      string
	Photos     []NarrativePhoto
}

// Narrative is the generated free-text character study plus derived tags.
type Narrative struct {
	VibeReport    string
	ProfileHook   string
	LifeStyleTags []string
	PromptTokens  int
	TotalTokens   int
}
