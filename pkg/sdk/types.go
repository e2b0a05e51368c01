package matchdex

import "time"

// SearchRequest is the body of POST /search. All fields are optional:
// an empty request returns recency-ordered eligible profiles.
//
// Query is parsed into filters plus per-space semantic queries by the
// service. ParsedQueries bypasses that step; keys are education_query,
// profession_query and vibe_report_query.
type SearchRequest struct {
	Query                 string            `json:"query,omitempty"`
	ParsedQueries         map[string]string `json:"parsed_queries,omitempty"`
	Filters               map[string]any    `json:"filters,omitempty"`
	Limit                 int               `json:"limit,omitempty"`
	Offset                int               `json:"offset,omitempty"`
	ScoreThreshold        float64           `json:"score_threshold,omitempty"`
	SkipIDs               []string          `json:"skip_ids,omitempty"`
	IncludeFilterAnalysis *bool             `json:"include_filter_analysis,omitempty"`
}

// SearchResponse is the full search outcome, including the effective
// query plan (mode, vectors, filters) for debugging.
type SearchResponse struct {
	Query          string            `json:"query,omitempty"`
	Parsed         map[string]string `json:"parsed,omitempty"`
	Results        []SearchHit       `json:"results"`
	TotalCount     uint64            `json:"total_count"`
	QueryMode      string            `json:"query_mode"`
	VectorsUsed    []string          `json:"vectors_used"`
	FiltersApplied map[string]any    `json:"filters_applied"`
	SearchTimeMs   float64           `json:"search_time_ms"`
	EmbeddingModel string            `json:"embedding_model"`
	FilterAnalysis *FilterAnalysis   `json:"filter_analysis,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// SearchHit is a single scored result.
type SearchHit struct {
	ID      string      `json:"id"`
	Score   float64     `json:"score"`
	Payload ProfileView `json:"payload"`
}

// ProfileView is the public projection of an indexed profile.
type ProfileView struct {
	ID              string     `json:"id"`
	IsCirculateable bool       `json:"is_circulateable"`
	IsPaused        bool       `json:"is_paused"`
	LastActive      *time.Time `json:"last_active"`

	Gender          string   `json:"gender"`
	Height          int      `json:"height"`
	DOB             string   `json:"dob"`
	CurrentLocation string   `json:"current_location"`
	AnnualIncome    *float64 `json:"annual_income"`

	Religion       string `json:"religion"`
	Caste          string `json:"caste"`
	Fitness        string `json:"fitness"`
	Religiosity    string `json:"religiosity"`
	Smoking        string `json:"smoking"`
	Drinking       string `json:"drinking"`
	FamilyType     string `json:"family_type"`
	FoodHabits     string `json:"food_habits"`
	Intent         string `json:"intent"`
	OpenToChildren string `json:"open_to_children"`

	Profession  string `json:"profession"`
	Education   string `json:"education"`
	VibeReport  string `json:"vibe_report"`
	Blurb       string `json:"blurb"`
	ProfileHook string `json:"profile_hook"`

	LifeStyleTags   []string       `json:"life_style_tags"`
	Interests       []string       `json:"interests"`
	PhotoCollection []ProfilePhoto `json:"photo_collection"`
}

// ProfilePhoto is one resolved showcase photo.
type ProfilePhoto struct {
	ShowCaseID string `json:"show_case_id"`
	URL        string `json:"url"`
}

// FilterImpact quantifies how many candidates one filter removes.
type FilterImpact struct {
	Filter           string  `json:"filter"`
	Value            any     `json:"value"`
	CountWith        uint64  `json:"count_with"`
	CountWithout     uint64  `json:"count_without"`
	RemovedCount     int64   `json:"removed_count"`
	ImpactPercentage float64 `json:"impact_percentage"`
}

// FilterAnalysis is the per-filter impact breakdown, most restrictive
// first, with relaxation recommendations.
type FilterAnalysis struct {
	Impacts             []FilterImpact `json:"impacts"`
	Recommendations     []string       `json:"recommendations"`
	TotalWithoutFilters uint64         `json:"total_without_filters"`
	CurrentCount        uint64         `json:"current_count"`
}

// ParseResult is the structured decomposition of a natural-language query.
type ParseResult struct {
	OriginalQuery   string         `json:"original_query"`
	Filters         map[string]any `json:"filters"`
	EducationQuery  string         `json:"education_query"`
	ProfessionQuery string         `json:"profession_query"`
	VibeReportQuery string         `json:"vibe_report_query"`
}

// IngestResult reports the reconciliation outcome for one profile.
// Decision is one of "full_upsert", "smart_update", "mark_ineligible"
// or "skip"; Profile is the stored payload after the operation.
type IngestResult struct {
	ID       string         `json:"id"`
	Decision string         `json:"decision"`
	Profile  map[string]any `json:"profile"`
}

// BatchItem is the outcome of one profile in a batch ingest.
type BatchItem struct {
	ID       string     `json:"id"`
	Status   string     `json:"status"` // "ok" or "error"
	Decision string     `json:"decision,omitempty"`
	Error    *APIRemark `json:"error,omitempty"`
}

// APIRemark is an inline error detail inside an otherwise-successful
// response.
type APIRemark struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchReport aggregates per-item outcomes of a batch ingest.
type BatchReport struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// StoredProfile is the raw indexed payload of one profile.
type StoredProfile struct {
	ID      string         `json:"id"`
	Payload map[string]any `json:"payload"`
}

// CollectionInfo is the index collection status.
type CollectionInfo struct {
	Name         string `json:"name"`
	PointsCount  uint64 `json:"points_count"`
	VectorsCount uint64 `json:"vectors_count"`
	Status       string `json:"status"`
}

// Period is the aggregation granularity for usage reports.
type Period string

// Period constants. An empty period defaults to PeriodMonth.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// UsageReport contains embedding usage statistics for a time period.
type UsageReport struct {
	Period        string       `json:"period"`
	PeriodStartAt *time.Time   `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time   `json:"period_end_at,omitempty"`
	Usage         UsageMetrics `json:"usage"`
	Budget        BudgetStatus `json:"budget"`
}

// UsageMetrics tracks embedding resource consumption.
type UsageMetrics struct {
	EmbeddingRequests int  `json:"embedding_requests"`
	Tokens            int  `json:"tokens"`
	CostMillidollars  *int `json:"cost_millidollars,omitempty"`
}

// BudgetStatus tracks token quota state. Zero TokensLimit means no
// budget is configured.
type BudgetStatus struct {
	TokensLimit     int        `json:"tokens_limit"`
	TokensRemaining int        `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// HealthStatus is the aggregated component health. Status is "ok",
// "degraded" or "error"; Checks maps component name to its state.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SourceProfile mirrors the upstream profile document accepted by the
// ingest endpoints (camelCase JSON). Only the _id field is required;
// the service derives eligibility, structured texts and photo URLs.
type SourceProfile struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`

	IsQL             bool          `json:"isQL"`
	IsActive         bool          `json:"isActive"`
	IsVerified       bool          `json:"isVerified"`
	IsNonServiceable bool          `json:"isNonServiceable"`
	IsSoftDeleted    bool          `json:"isSoftDeleted"`
	PauseDetails     *PauseDetails `json:"pauseDetails,omitempty"`
	OnboardedOn      *time.Time    `json:"onboardedOn,omitempty"`
	TestLead         bool          `json:"testLead"`

	ForceUpdate                bool `json:"forceUpdate"`
	HasInstalledApp            bool `json:"hasInstalledApp"`
	IsAboutYouFormFilled       bool `json:"isAboutYouFormFilled"`
	IsPhotoCollectionSubmitted bool `json:"isPhotoCollectionSubmitted"`

	Gender          string   `json:"gender"`
	Height          int      `json:"height"`
	DOB             string   `json:"dob"`
	CurrentLocation string   `json:"currentLocation"`
	AnnualIncome    *float64 `json:"annualIncome,omitempty"`

	Religion       string `json:"religion"`
	Caste          string `json:"caste,omitempty"`
	MaritalStatus  string `json:"maritalStatus,omitempty"`
	Fitness        string `json:"fitness,omitempty"`
	Religiosity    string `json:"religiosity,omitempty"`
	Smoking        string `json:"smoking,omitempty"`
	Drinking       string `json:"drinking,omitempty"`
	FoodHabits     string `json:"foodHabits,omitempty"`
	Intent         string `json:"intent,omitempty"`
	OpenToChildren string `json:"openToChildren,omitempty"`
	FamilyType     string `json:"familyType,omitempty"`

	AppVersionDetails AppVersionDetails `json:"appVersionDetails"`

	EducationDetails                []EducationDetail  `json:"educationDetails,omitempty"`
	ProfessionalJourneyDetails      []ProfessionDetail `json:"professionalJourneyDetails,omitempty"`
	HighlightedProfessionalDetailID string             `json:"highlightedProfessionalDetailId,omitempty"`

	SimilarInterestsV2 []string   `json:"similarInterestsV2,omitempty"`
	Blurb              string     `json:"blurb,omitempty"`
	PhotoCollection    []PhotoDoc `json:"photoCollection,omitempty"`
	ShowCaseProfileIDs []string   `json:"showCaseProfileIds,omitempty"`
}

// PauseDetails carries the upstream pause flag.
type PauseDetails struct {
	IsPaused bool `json:"isPaused"`
}

// AppVersionDetails carries the last-active timestamp.
type AppVersionDetails struct {
	LastUpdatedOn *time.Time `json:"lastUpdatedOn,omitempty"`
}

// EducationDetail is one upstream education entry.
type EducationDetail struct {
	ID           string `json:"id,omitempty"`
	College      string `json:"college,omitempty"`
	CollegeOther string `json:"collegeOther,omitempty"`
	Degree       string `json:"degree,omitempty"`
	DegreeOther  string `json:"degreeOther,omitempty"`
}

// ProfessionDetail is one upstream professional journey entry.
type ProfessionDetail struct {
	ID               string `json:"id,omitempty"`
	Company          string `json:"company,omitempty"`
	CompanyOther     string `json:"companyOther,omitempty"`
	Designation      string `json:"designation,omitempty"`
	DesignationOther string `json:"designationOther,omitempty"`
}

// PhotoDoc is one upstream photo document.
type PhotoDoc struct {
	Key        string `json:"key,omitempty"`
	CroppedKey string `json:"croppedKey,omitempty"`
	IsRemoved  bool   `json:"isRemoved"`
	ShowCaseID string `json:"showCaseId,omitempty"`
	MediaID    string `json:"mediaId,omitempty"`
	MediaType  string `json:"mediaType,omitempty"`
}
