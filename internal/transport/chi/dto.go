package chi

import (
	"net/url"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/domain/analysis"
	dombatch "github.com/kailas-cloud/matchdex/internal/domain/batch"
	domcol "github.com/kailas-cloud/matchdex/internal/domain/collection"
	"github.com/kailas-cloud/matchdex/internal/domain/profile"
	domusage "github.com/kailas-cloud/matchdex/internal/domain/usage"
	healthuc "github.com/kailas-cloud/matchdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/matchdex/internal/usecase/search"
)

// errCode is the machine-readable error class in error responses.
type errCode string

const (
	codeBadRequest             errCode = "bad_request"
	codeValidationFailed       errCode = "validation_failed"
	codeUnauthorized           errCode = "unauthorized"
	codeProfileNotFound        errCode = "profile_not_found"
	codeCollectionNotFound     errCode = "collection_not_found"
	codeParserUnavailable      errCode = "parser_unavailable"
	codeRateLimited            errCode = "rate_limited"
	codeEmbeddingQuotaExceeded errCode = "embedding_quota_exceeded"
	codeEmbeddingProviderError errCode = "embedding_provider_error"
	codeInternalError          errCode = "internal_error"
)

type errorResponse struct {
	Code    errCode `json:"code"`
	Message string  `json:"message"`
}

// searchRequest is the POST /search body. GET /search binds its query
// parameters into the same shape and shares the flow.
type searchRequest struct {
	Query                 string            `json:"query,omitempty"`
	ParsedQueries         map[string]string `json:"parsed_queries,omitempty"`
	Filters               map[string]any    `json:"filters,omitempty"`
	Limit                 int               `json:"limit,omitempty"`
	Offset                int               `json:"offset,omitempty"`
	ScoreThreshold        float64           `json:"score_threshold,omitempty"`
	SkipIDs               []string          `json:"skip_ids,omitempty"`
	IncludeFilterAnalysis *bool             `json:"include_filter_analysis,omitempty"`
}

type searchResponse struct {
	Query          string             `json:"query,omitempty"`
	Parsed         map[string]string  `json:"parsed,omitempty"`
	Results        []searchResultItem `json:"results"`
	TotalCount     uint64             `json:"total_count"`
	QueryMode      string             `json:"query_mode"`
	VectorsUsed    []string           `json:"vectors_used"`
	FiltersApplied map[string]any     `json:"filters_applied"`
	SearchTimeMs   float64            `json:"search_time_ms"`
	EmbeddingModel string             `json:"embedding_model"`
	FilterAnalysis *filterAnalysis    `json:"filter_analysis,omitempty"`
	Error          string             `json:"error,omitempty"`
}

type searchResultItem struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload profilePayload `json:"payload"`
}

// profilePayload is the public projection of a stored profile. Internal
// fields (names, age, test lead flag, content hashes) are not exposed.
type profilePayload struct {
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
	PhotoCollection []photoPayload `json:"photo_collection"`
}

type photoPayload struct {
	ShowCaseID string `json:"show_case_id"`
	URL        string `json:"url"`
}

type filterImpact struct {
	Filter           string  `json:"filter"`
	Value            any     `json:"value"`
	CountWith        uint64  `json:"count_with"`
	CountWithout     uint64  `json:"count_without"`
	RemovedCount     int64   `json:"removed_count"`
	ImpactPercentage float64 `json:"impact_percentage"`
}

type filterAnalysis struct {
	Impacts             []filterImpact `json:"impacts"`
	Recommendations     []string       `json:"recommendations"`
	TotalWithoutFilters uint64         `json:"total_without_filters"`
	CurrentCount        uint64         `json:"current_count"`
}

type parseRequest struct {
	Query string `json:"query"`
}

type parseResponse struct {
	OriginalQuery   string         `json:"original_query"`
	Filters         map[string]any `json:"filters"`
	EducationQuery  string         `json:"education_query"`
	ProfessionQuery string         `json:"profession_query"`
	VibeReportQuery string         `json:"vibe_report_query"`
}

type ingestResponse struct {
	ID       string         `json:"id"`
	Decision string         `json:"decision"`
	Profile  map[string]any `json:"profile"`
}

type batchResultItem struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Decision string         `json:"decision,omitempty"`
	Error    *errorResponse `json:"error,omitempty"`
}

type batchResponse struct {
	Items     []batchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

type profileResponse struct {
	ID      string         `json:"id"`
	Payload map[string]any `json:"payload"`
}

type collectionInfoResponse struct {
	Name         string `json:"name"`
	PointsCount  uint64 `json:"points_count"`
	VectorsCount uint64 `json:"vectors_count"`
	Status       string `json:"status"`
}

type usageMetricsDTO struct {
	EmbeddingRequests int  `json:"embedding_requests"`
	Tokens            int  `json:"tokens"`
	CostMillidollars  *int `json:"cost_millidollars,omitempty"`
}

type usageBudgetDTO struct {
	TokensLimit     int        `json:"tokens_limit"`
	TokensRemaining int        `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

type usageResponse struct {
	Period        string          `json:"period"`
	PeriodStartAt *time.Time      `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time      `json:"period_end_at,omitempty"`
	Usage         usageMetricsDTO `json:"usage"`
	Budget        usageBudgetDTO  `json:"budget"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// bindSearchParams decodes GET /search query parameters into the shared
// search request shape. Parsed queries are assembled only when at least
// one per-field query is supplied; a bare q triggers auto-parsing.
func bindSearchParams(query url.Values) (searchRequest, error) {
	var q, educationQuery, professionQuery, vibeReportQuery *string
	var genders, religions, locations, maritalStatuses *[]string
	var foodHabits, smoking, drinking *[]string
	var minAge, maxAge, minHeight, maxHeight, minIncome, maxIncome *int
	var limit, offset *int

	stringParams := map[string]**string{
		"q":                 &q,
		"education_query":   &educationQuery,
		"profession_query":  &professionQuery,
		"vibe_report_query": &vibeReportQuery,
	}
	for name, dest := range stringParams {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			return searchRequest{}, err
		}
	}

	listParams := map[string]**[]string{
		"genders":          &genders,
		"religions":        &religions,
		"locations":        &locations,
		"marital_statuses": &maritalStatuses,
		"food_habits":      &foodHabits,
		"smoking":          &smoking,
		"drinking":         &drinking,
	}
	for name, dest := range listParams {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			return searchRequest{}, err
		}
	}

	intParams := map[string]**int{
		"min_age":    &minAge,
		"max_age":    &maxAge,
		"min_height": &minHeight,
		"max_height": &maxHeight,
		"min_income": &minIncome,
		"max_income": &maxIncome,
		"limit":      &limit,
		"offset":     &offset,
	}
	for name, dest := range intParams {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			return searchRequest{}, err
		}
	}

	req := searchRequest{Limit: 50}
	if q != nil {
		req.Query = *q
	}
	if limit != nil {
		req.Limit = *limit
	}
	if offset != nil {
		req.Offset = *offset
	}

	if educationQuery != nil || professionQuery != nil || vibeReportQuery != nil {
		req.ParsedQueries = map[string]string{
			"education_query":   strOrEmpty(educationQuery),
			"profession_query":  strOrEmpty(professionQuery),
			"vibe_report_query": strOrEmpty(vibeReportQuery),
		}
	}

	filters := map[string]any{}
	addListFilter(filters, "genders", genders)
	addListFilter(filters, "religions", religions)
	addListFilter(filters, "locations", locations)
	addListFilter(filters, "marital_statuses", maritalStatuses)
	addListFilter(filters, "food_habits", foodHabits)
	addListFilter(filters, "smoking", smoking)
	addListFilter(filters, "drinking", drinking)
	addIntFilter(filters, "min_age", minAge)
	addIntFilter(filters, "max_age", maxAge)
	addIntFilter(filters, "min_height", minHeight)
	addIntFilter(filters, "max_height", maxHeight)
	addIntFilter(filters, "min_income", minIncome)
	addIntFilter(filters, "max_income", maxIncome)
	if len(filters) > 0 {
		req.Filters = filters
	}

	return req, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func addListFilter(filters map[string]any, key string, values *[]string) {
	if values != nil && len(*values) > 0 {
		filters[key] = *values
	}
}

func addIntFilter(filters map[string]any, key string, value *int) {
	if value != nil {
		filters[key] = *value
	}
}

func toSearchResponse(resp searchuc.Response) searchResponse {
	items := make([]searchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = searchResultItem{
			ID:      resp.Results[i].ID(),
			Score:   resp.Results[i].Score(),
			Payload: toProfilePayload(resp.Results[i].Payload()),
		}
	}

	return searchResponse{
		Query:          resp.Query,
		Parsed:         resp.Parsed,
		Results:        items,
		TotalCount:     resp.TotalCount,
		QueryMode:      string(resp.QueryMode),
		VectorsUsed:    resp.VectorsUsed,
		FiltersApplied: resp.FiltersApplied,
		SearchTimeMs:   resp.SearchTimeMs,
		EmbeddingModel: resp.EmbeddingModel,
		FilterAnalysis: toFilterAnalysis(resp.FilterAnalysis),
		Error:          resp.Error,
	}
}

func toProfilePayload(payload map[string]any) profilePayload {
	p := profile.FromPayload(payload)

	photos := make([]photoPayload, len(p.Photos))
	for i, ph := range p.Photos {
		photos[i] = photoPayload{ShowCaseID: ph.ShowCaseID, URL: ph.URL}
	}

	return profilePayload{
		ID:              p.ID,
		IsCirculateable: p.IsCirculateable,
		IsPaused:        p.IsPaused,
		LastActive:      p.LastActive,
		Gender:          p.Gender,
		Height:          p.Height,
		DOB:             p.DOB,
		CurrentLocation: p.CurrentLocation,
		AnnualIncome:    p.AnnualIncome,
		Religion:        p.Religion,
		Caste:           p.Caste,
		Fitness:         p.Fitness,
		Religiosity:     p.Religiosity,
		Smoking:         p.Smoking,
		Drinking:        p.Drinking,
		FamilyType:      p.FamilyType,
		FoodHabits:      p.FoodHabits,
		Intent:          p.Intent,
		OpenToChildren:  p.OpenToChildren,
		Profession:      p.Profession,
		Education:       p.Education,
		VibeReport:      p.VibeReport,
		Blurb:           p.Blurb,
		ProfileHook:     p.ProfileHook,
		LifeStyleTags:   stringsOrEmpty(p.LifeStyleTags),
		Interests:       stringsOrEmpty(p.Interests),
		PhotoCollection: photos,
	}
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func toFilterAnalysis(a *analysis.Analysis) *filterAnalysis {
	if a == nil {
		return nil
	}

	impacts := make([]filterImpact, len(a.Impacts))
	for i, imp := range a.Impacts {
		impacts[i] = filterImpact{
			Filter:           imp.Filter,
			Value:            imp.Value,
			CountWith:        imp.CountWith,
			CountWithout:     imp.CountWithout,
			RemovedCount:     imp.RemovedCount,
			ImpactPercentage: imp.ImpactPercentage,
		}
	}

	recommendations := a.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return &filterAnalysis{
		Impacts:             impacts,
		Recommendations:     recommendations,
		TotalWithoutFilters: a.TotalWithoutFilters,
		CurrentCount:        a.CurrentCount,
	}
}

func toParseResponse(parsed domain.ParsedQuery) parseResponse {
	filters := parsed.Filters
	if filters == nil {
		filters = map[string]any{}
	}
	return parseResponse{
		OriginalQuery:   parsed.OriginalQuery,
		Filters:         filters,
		EducationQuery:  parsed.EducationQuery,
		ProfessionQuery: parsed.ProfessionQuery,
		VibeReportQuery: parsed.VibeReportQuery,
	}
}

func toBatchItem(res dombatch.Result) batchResultItem {
	item := batchResultItem{
		ID:     res.ID(),
		Status: string(res.Status()),
	}
	if res.Decision() != "" {
		item.Decision = string(res.Decision())
	}
	if err := res.Err(); err != nil {
		item.Error = &errorResponse{
			Code:    batchErrorCode(err),
			Message: safeDomainMessage(err),
		}
	}
	return item
}

func toCollectionInfo(info domcol.Info) collectionInfoResponse {
	return collectionInfoResponse{
		Name:         info.Name,
		PointsCount:  info.PointsCount,
		VectorsCount: info.VectorsCount,
		Status:       info.Status,
	}
}

func toUsageResponse(report domusage.Report) usageResponse {
	resp := usageResponse{
		Period: string(report.Period()),
		Usage: usageMetricsDTO{
			EmbeddingRequests: report.Metrics().EmbeddingRequests(),
			Tokens:            report.Metrics().Tokens(),
		},
		Budget: usageBudgetDTO{
			TokensLimit:     report.Budget().TokensLimit(),
			TokensRemaining: report.Budget().TokensRemaining(),
			IsExhausted:     report.Budget().IsExhausted(),
		},
	}

	if report.Metrics().CostMillidollars() > 0 {
		cost := report.Metrics().CostMillidollars()
		resp.Usage.CostMillidollars = &cost
	}

	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}

	if report.Budget().ResetsAt() > 0 {
		resetsAt := time.UnixMilli(report.Budget().ResetsAt()).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}

	return resp
}

func toHealthResponse(report healthuc.Report) healthResponse {
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return healthResponse{
		Status: string(report.Status),
		Checks: checks,
	}
}
