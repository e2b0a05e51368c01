package domain

// ParsedQuery is the structured form of a natural-language search query:
// hard attribute filters plus up to three per-field semantic queries.
type ParsedQuery struct {
	OriginalQuery   string
	Filters         map[string]any
	EducationQuery  string
	ProfessionQuery string
	VibeReportQuery string
}

// HasSemanticQuery reports whether any per-field semantic query is set.
func (p ParsedQuery) HasSemanticQuery() bool {
	return p.EducationQuery != "" || p.ProfessionQuery != "" || p.VibeReportQuery != ""
}

// SemanticQueries returns the per-field queries keyed by API field name.
func (p ParsedQuery) SemanticQueries() map[string]string {
	return map[string]string{
		"education_query":   p.EducationQuery,
		"profession_query":  p.ProfessionQuery,
		"vibe_report_query": p.VibeReportQuery,
	}
}
