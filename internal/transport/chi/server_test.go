package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/domain/analysis"
	domcol "github.com/kailas-cloud/matchdex/internal/domain/collection"
	"github.com/kailas-cloud/matchdex/internal/domain/filter"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/domain/profile"
	"github.com/kailas-cloud/matchdex/internal/domain/search/result"
	"github.com/kailas-cloud/matchdex/internal/index"
	"github.com/kailas-cloud/matchdex/internal/metrics"
	collectionuc "github.com/kailas-cloud/matchdex/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/matchdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/matchdex/internal/usecase/ingest"
	parseuc "github.com/kailas-cloud/matchdex/internal/usecase/parse"
	searchuc "github.com/kailas-cloud/matchdex/internal/usecase/search"
	usageuc "github.com/kailas-cloud/matchdex/internal/usecase/usage"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	metrics.RegisterIngestMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockSearchRepo struct {
	hits    []result.Hit
	count   uint64
	err     error
	gotPlan plan.Plan
}

func (m *mockSearchRepo) Search(_ context.Context, p plan.Plan) ([]result.Hit, error) {
	m.gotPlan = p
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

func (m *mockSearchRepo) Count(_ context.Context, _ filter.Predicate) (uint64, error) {
	return m.count, nil
}

type mockAnalyzer struct {
	report analysis.Analysis
	calls  int
}

func (m *mockAnalyzer) Analyze(_ context.Context, _ filter.Criteria) (analysis.Analysis, error) {
	m.calls++
	return m.report, nil
}

type mockBatchDense struct{}

func (m *mockBatchDense) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{0.1, 0.2}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings, TotalTokens: 5 * len(texts)}, nil
}

type mockQueryMulti struct{}

func (m *mockQueryMulti) EmbedMulti(_ context.Context, _ string) (domain.MultiEmbeddingResult, error) {
	return domain.MultiEmbeddingResult{Vectors: [][]float32{{0.1}, {0.2}}, TotalTokens: 3}, nil
}

type mockQueryParser struct {
	parsed domain.ParsedQuery
	err    error
}

func (m *mockQueryParser) Parse(_ context.Context, _ string) (domain.ParsedQuery, error) {
	if m.err != nil {
		return domain.ParsedQuery{}, m.err
	}
	return m.parsed, nil
}

type mockProfileStore struct {
	stored  map[string]profile.Profile
	upserts int
}

func (m *mockProfileStore) Get(_ context.Context, externalID string) (profile.Profile, error) {
	p, ok := m.stored[externalID]
	if !ok {
		return profile.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileStore) UpsertFull(_ context.Context, p profile.Profile, _ map[string]plan.Vector) error {
	m.stored[p.ID] = p
	m.upserts++
	return nil
}

func (m *mockProfileStore) PatchPayload(_ context.Context, _ string, _ map[string]any) error {
	return nil
}

func (m *mockProfileStore) UpdateVectors(_ context.Context, _ string, _ map[string]plan.Vector) error {
	return nil
}

func (m *mockProfileStore) Delete(_ context.Context, externalID string) error {
	if _, ok := m.stored[externalID]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(m.stored, externalID)
	return nil
}

type mockFieldDense struct{}

func (m *mockFieldDense) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}, TotalTokens: 7}, nil
}

type mockCollectionState struct {
	info domcol.Info
	err  error
}

func (m *mockCollectionState) CollectionInfo(_ context.Context) (domcol.Info, error) {
	if m.err != nil {
		return domcol.Info{}, m.err
	}
	return m.info, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Fixtures ---

type serverDeps struct {
	searchRepo *mockSearchRepo
	analyzer   *mockAnalyzer
	store      *mockProfileStore
	state      *mockCollectionState
	pinger     *mockPinger
}

func newTestServer(t *testing.T) (*Server, *serverDeps) {
	t.Helper()

	deps := &serverDeps{
		searchRepo: &mockSearchRepo{},
		analyzer:   &mockAnalyzer{},
		store:      &mockProfileStore{stored: map[string]profile.Profile{}},
		state:      &mockCollectionState{info: domcol.Info{Name: domcol.DefaultName, PointsCount: 9, Status: "green"}},
		pinger:     &mockPinger{},
	}

	logger := zap.NewNop()
	parseSvc := parseuc.New(nil, logger)
	searchSvc := searchuc.New(deps.searchRepo, parseSvc, &mockBatchDense{}, &mockQueryMulti{}, deps.analyzer)
	ingestSvc := ingestuc.New(deps.store, &mockFieldDense{}, nil, nil, "https://cdn.test", logger)

	srv := NewServer(
		searchSvc,
		parseSvc,
		ingestSvc,
		collectionuc.New(deps.state),
		usageuc.New(nil),
		healthuc.New(deps.pinger, nil, nil),
		logger,
	)
	return srv, deps
}

func serve(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	r := gochi.NewRouter()
	srv.Mount(r)

	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return v
}

func eligibleSource(id string) profile.Source {
	onboarded := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	return profile.Source{
		ID:              id,
		IsQL:            true,
		IsActive:        true,
		IsVerified:      true,
		OnboardedOn:     &onboarded,
		Gender:          "female",
		Height:          165,
		DOB:             "1996-04-12",
		CurrentLocation: "blr",
		Religion:        "HI",
		EducationDetails: []profile.EducationDetail{
			{Degree: "B.Tech", College: "IIT Delhi"},
		},
	}
}

func storedProfile(id string) profile.Profile {
	lastActive := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	return profile.Profile{
		ID:              id,
		IsCirculateable: true,
		Gender:          "F",
		Height:          64,
		Education:       "B.Tech from IIT Delhi",
		LastActive:      &lastActive,
		Interests:       []string{"trekking"},
	}
}

// --- Tests ---

func TestSearch_EmptyRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "POST", "/search", map[string]any{})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[searchResponse](t, rr)
	if resp.Error != searchuc.EmptySearchError {
		t.Errorf("error = %q, want %q", resp.Error, searchuc.EmptySearchError)
	}
	if resp.QueryMode != "empty" {
		t.Errorf("query_mode = %q, want empty", resp.QueryMode)
	}
	if len(resp.Results) != 0 {
		t.Errorf("results = %d, want none", len(resp.Results))
	}
}

func TestSearch_AutoParseWithoutParser(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "POST", "/search", map[string]any{"query": "engineers in bangalore"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	resp := decodeBody[errorResponse](t, rr)
	want := "Provide parsed_queries or configure OpenAI API key for auto-parsing"
	if resp.Message != want {
		t.Errorf("message = %q, want %q", resp.Message, want)
	}
}

func TestSearch_FilterOnly(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.searchRepo.hits = []result.Hit{
		result.New("point-1", 1.0, storedProfile("u1").Payload()),
	}
	deps.searchRepo.count = 7

	rr := serve(t, srv, "POST", "/search", map[string]any{
		"filters":                 map[string]any{"genders": []string{"F"}},
		"include_filter_analysis": false,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[searchResponse](t, rr)
	if resp.QueryMode != "filter_only" {
		t.Errorf("query_mode = %q, want filter_only", resp.QueryMode)
	}
	if resp.TotalCount != 7 {
		t.Errorf("total_count = %d, want 7", resp.TotalCount)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].ID != "point-1" {
		t.Errorf("result id = %q", resp.Results[0].ID)
	}
	if resp.Results[0].Payload.ID != "u1" {
		t.Errorf("payload id = %q, want u1", resp.Results[0].Payload.ID)
	}
	if resp.Results[0].Payload.Gender != "F" {
		t.Errorf("payload gender = %q, want F", resp.Results[0].Payload.Gender)
	}
	if resp.FilterAnalysis != nil {
		t.Error("filter_analysis present despite include_filter_analysis=false")
	}
	if deps.analyzer.calls != 0 {
		t.Errorf("analyzer calls = %d, want 0", deps.analyzer.calls)
	}
}

func TestSearch_IncludesFilterAnalysis(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.analyzer.report = analysis.Analysis{
		Impacts:             []analysis.Impact{{Filter: "genders", Value: []string{"F"}, CountWith: 40, CountWithout: 100, RemovedCount: 60, ImpactPercentage: 60}},
		Recommendations:     []string{"Relax genders"},
		TotalWithoutFilters: 100,
		CurrentCount:        40,
	}

	rr := serve(t, srv, "POST", "/search", map[string]any{
		"filters": map[string]any{"genders": []string{"F"}},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[searchResponse](t, rr)
	if resp.FilterAnalysis == nil {
		t.Fatal("filter_analysis missing")
	}
	if resp.FilterAnalysis.CurrentCount != 40 {
		t.Errorf("current_count = %d, want 40", resp.FilterAnalysis.CurrentCount)
	}
	if len(resp.FilterAnalysis.Impacts) != 1 {
		t.Errorf("impacts = %d, want 1", len(resp.FilterAnalysis.Impacts))
	}
	if deps.analyzer.calls != 1 {
		t.Errorf("analyzer calls = %d, want 1", deps.analyzer.calls)
	}
}

func TestSearchGet_BindsQueryParams(t *testing.T) {
	srv, deps := newTestServer(t)

	rr := serve(t, srv, "GET", "/search?genders=F&min_age=25&limit=5", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[searchResponse](t, rr)
	if resp.QueryMode != "filter_only" {
		t.Errorf("query_mode = %q, want filter_only", resp.QueryMode)
	}
	if deps.searchRepo.gotPlan.Limit() != 5 {
		t.Errorf("plan limit = %d, want 5", deps.searchRepo.gotPlan.Limit())
	}
	if len(resp.FiltersApplied) == 0 {
		t.Error("filters_applied empty")
	}
}

func TestSearch_ConfiguredLimits(t *testing.T) {
	srv, deps := newTestServer(t)
	srv.WithSearchLimits(25, 40)

	rr := serve(t, srv, "POST", "/search", map[string]any{
		"filters": map[string]any{"genders": []string{"F"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if deps.searchRepo.gotPlan.Limit() != 25 {
		t.Errorf("default plan limit = %d, want 25", deps.searchRepo.gotPlan.Limit())
	}

	rr = serve(t, srv, "POST", "/search", map[string]any{
		"filters": map[string]any{"genders": []string{"F"}},
		"limit":   120,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if deps.searchRepo.gotPlan.Limit() != 40 {
		t.Errorf("clamped plan limit = %d, want 40", deps.searchRepo.gotPlan.Limit())
	}
}

func TestSearchGet_InvalidParam(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "GET", "/search?min_age=abc", nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeBadRequest {
		t.Errorf("code = %q, want %q", resp.Code, codeBadRequest)
	}
}

func TestParse_Unavailable(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "POST", "/parse", map[string]any{"query": "doctors in mumbai"})

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	resp := decodeBody[errorResponse](t, rr)
	want := "Query parsing unavailable - OpenAI API key not configured"
	if resp.Message != want {
		t.Errorf("message = %q, want %q", resp.Message, want)
	}
	if resp.Code != codeParserUnavailable {
		t.Errorf("code = %q, want %q", resp.Code, codeParserUnavailable)
	}
}

func TestParse_ReturnsStructure(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.parse = parseuc.New(&mockQueryParser{parsed: domain.ParsedQuery{
		OriginalQuery:   "doctors in mumbai",
		Filters:         map[string]any{"locations": []string{"mumbai"}},
		ProfessionQuery: "doctor physician",
	}}, zap.NewNop())

	rr := serve(t, srv, "POST", "/parse", map[string]any{"query": "doctors in mumbai"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[parseResponse](t, rr)
	if resp.OriginalQuery != "doctors in mumbai" {
		t.Errorf("original_query = %q", resp.OriginalQuery)
	}
	if resp.ProfessionQuery != "doctor physician" {
		t.Errorf("profession_query = %q", resp.ProfessionQuery)
	}
	if _, ok := resp.Filters["locations"]; !ok {
		t.Error("filters missing locations")
	}
}

func TestParse_EmptyQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "POST", "/parse", map[string]any{})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestIngest_MissingID(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "POST", "/ingest", map[string]any{"gender": "female"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeValidationFailed {
		t.Errorf("code = %q, want %q", resp.Code, codeValidationFailed)
	}
	if resp.Message != domain.ErrMissingProfileID.Error() {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestIngest_FullUpsert(t *testing.T) {
	srv, deps := newTestServer(t)

	rr := serve(t, srv, "POST", "/ingest", eligibleSource("u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[ingestResponse](t, rr)
	if resp.ID != "u1" {
		t.Errorf("id = %q, want u1", resp.ID)
	}
	if resp.Decision != "full_upsert" {
		t.Errorf("decision = %q, want full_upsert", resp.Decision)
	}
	if resp.Profile["education"] != "B.Tech from IIT Delhi" {
		t.Errorf("profile education = %v", resp.Profile["education"])
	}
	if deps.store.upserts != 1 {
		t.Errorf("upserts = %d, want 1", deps.store.upserts)
	}
	if got := rr.Header().Get("X-Embedding-Tokens"); got != "7" {
		t.Errorf("X-Embedding-Tokens = %q, want 7", got)
	}
}

func TestIngestBatch_MixedOutcomes(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "POST", "/ingest/batch", []profile.Source{
		eligibleSource("u1"),
		{Gender: "male"},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[batchResponse](t, rr)
	if resp.Succeeded != 1 || resp.Failed != 1 {
		t.Fatalf("succeeded/failed = %d/%d, want 1/1", resp.Succeeded, resp.Failed)
	}
	if resp.Items[0].Decision != "full_upsert" {
		t.Errorf("item 0 decision = %q", resp.Items[0].Decision)
	}
	if resp.Items[1].Error == nil {
		t.Fatal("item 1 error missing")
	}
	if resp.Items[1].Error.Code != codeValidationFailed {
		t.Errorf("item 1 error code = %q", resp.Items[1].Error.Code)
	}
}

func TestIngestBatch_EmptyBody(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "POST", "/ingest/batch", []profile.Source{})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestGetProfile(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.store.stored["u1"] = storedProfile("u1")

	rr := serve(t, srv, "GET", "/profile/u1", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[profileResponse](t, rr)
	if resp.ID != "u1" {
		t.Errorf("id = %q, want u1", resp.ID)
	}
	if resp.Payload["education"] != "B.Tech from IIT Delhi" {
		t.Errorf("payload education = %v", resp.Payload["education"])
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "GET", "/profile/ghost", nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeProfileNotFound {
		t.Errorf("code = %q, want %q", resp.Code, codeProfileNotFound)
	}
}

func TestDeleteProfile(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.store.stored["u1"] = storedProfile("u1")

	rr := serve(t, srv, "DELETE", "/profile/u1", nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if _, ok := deps.store.stored["u1"]; ok {
		t.Error("profile still stored after delete")
	}
}

func TestDeleteProfile_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "DELETE", "/profile/ghost", nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestCollectionInfo(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "GET", "/collection/info", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[collectionInfoResponse](t, rr)
	if resp.Name != domcol.DefaultName {
		t.Errorf("name = %q", resp.Name)
	}
	if resp.PointsCount != 9 {
		t.Errorf("points_count = %d, want 9", resp.PointsCount)
	}
}

func TestCollectionInfo_Missing(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.state.err = index.ErrCollectionNotFound

	rr := serve(t, srv, "GET", "/collection/info", nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeCollectionNotFound {
		t.Errorf("code = %q, want %q", resp.Code, codeCollectionNotFound)
	}
}

func TestUsage_Periods(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "GET", "/usage", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[usageResponse](t, rr)
	if resp.Period != "month" {
		t.Errorf("default period = %q, want month", resp.Period)
	}

	rr = serve(t, srv, "GET", "/usage?period=day", nil)
	resp = decodeBody[usageResponse](t, rr)
	if resp.Period != "day" {
		t.Errorf("period = %q, want day", resp.Period)
	}
}

func TestHealth_OK(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := serve(t, srv, "GET", "/health", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody[healthResponse](t, rr)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Checks["index"] != "ok" {
		t.Errorf("index check = %q, want ok", resp.Checks["index"])
	}
}

func TestHealth_Degraded(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.pinger.err = context.DeadlineExceeded

	rr := serve(t, srv, "GET", "/health", nil)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	resp := decodeBody[healthResponse](t, rr)
	if resp.Status != "degraded" {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
}

func TestBindSearchParams_Defaults(t *testing.T) {
	req, err := bindSearchParams(url.Values{})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if req.Limit != 50 {
		t.Errorf("limit = %d, want 50", req.Limit)
	}
	if req.Offset != 0 {
		t.Errorf("offset = %d, want 0", req.Offset)
	}
	if req.ParsedQueries != nil {
		t.Error("parsed queries should be nil without semantic params")
	}
	if req.Filters != nil {
		t.Error("filters should be nil without filter params")
	}
}

func TestBindSearchParams_FullSet(t *testing.T) {
	v := url.Values{}
	v.Set("q", "engineers")
	v.Set("education_query", "iit")
	v.Add("genders", "F")
	v.Add("genders", "M")
	v.Set("min_age", "25")
	v.Set("limit", "10")
	v.Set("offset", "5")

	req, err := bindSearchParams(v)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if req.Query != "engineers" {
		t.Errorf("query = %q", req.Query)
	}
	if req.Limit != 10 || req.Offset != 5 {
		t.Errorf("limit/offset = %d/%d, want 10/5", req.Limit, req.Offset)
	}
	if req.ParsedQueries["education_query"] != "iit" {
		t.Errorf("education_query = %q", req.ParsedQueries["education_query"])
	}
	if req.ParsedQueries["profession_query"] != "" {
		t.Errorf("profession_query = %q, want empty", req.ParsedQueries["profession_query"])
	}
	genders, ok := req.Filters["genders"].([]string)
	if !ok || len(genders) != 2 {
		t.Fatalf("genders filter = %#v", req.Filters["genders"])
	}
	if minAge, ok := req.Filters["min_age"].(int); !ok || minAge != 25 {
		t.Errorf("min_age filter = %#v", req.Filters["min_age"])
	}
}

func TestBindSearchParams_InvalidInt(t *testing.T) {
	v := url.Values{}
	v.Set("min_age", "abc")

	if _, err := bindSearchParams(v); err == nil {
		t.Fatal("want error for non-numeric min_age")
	}
}
