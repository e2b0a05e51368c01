// Package chi serves the HTTP API: search, query parsing, profile
// ingestion and lookup, collection diagnostics, usage and health.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
	dombatch "github.com/kailas-cloud/matchdex/internal/domain/batch"
	"github.com/kailas-cloud/matchdex/internal/domain/profile"
	"github.com/kailas-cloud/matchdex/internal/domain/search/request"
	domusage "github.com/kailas-cloud/matchdex/internal/domain/usage"
	"github.com/kailas-cloud/matchdex/internal/metrics"
	collectionuc "github.com/kailas-cloud/matchdex/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/matchdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/matchdex/internal/usecase/ingest"
	parseuc "github.com/kailas-cloud/matchdex/internal/usecase/parse"
	searchuc "github.com/kailas-cloud/matchdex/internal/usecase/search"
	usageuc "github.com/kailas-cloud/matchdex/internal/usecase/usage"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the matchdex API over HTTP.
type Server struct {
	search        *searchuc.Service
	parse         *parseuc.Service
	ingest        *ingestuc.Service
	collections   *collectionuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
	defaultLimit  int
	maxLimit      int
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	parse *parseuc.Service,
	ingest *ingestuc.Service,
	collections *collectionuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:      search,
		parse:       parse,
		ingest:      ingest,
		collections: collections,
		usage:       usage,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProfileNotFound, http.StatusNotFound, codeProfileNotFound),
		sentinelHandler(domain.ErrMissingProfileID, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidProfile, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrCollectionNotFound, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrParserUnavailable, http.StatusServiceUnavailable, codeParserUnavailable),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded,
			http.StatusPaymentRequired, codeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// WithSearchLimits configures the page size applied when a request omits
// its limit, and an upper clamp below the hard cap. Zero keeps the
// built-in defaults.
func (s *Server) WithSearchLimits(defaultLimit, maxLimit int) *Server {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// Mount registers every API route on the base router.
func (s *Server) Mount(r gochi.Router) {
	r.Post("/search", s.Search)
	r.Get("/search", s.SearchGet)
	r.Post("/parse", s.Parse)
	r.Post("/ingest", s.Ingest)
	r.Post("/ingest/batch", s.IngestBatch)
	r.Get("/profile/{id}", s.GetProfile)
	r.Delete("/profile/{id}", s.DeleteProfile)
	r.Get("/collection/info", s.CollectionInfo)
	r.Get("/usage", s.Usage)
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	s.runSearch(w, r, req)
}

// SearchGet handles GET /search. Query parameters bind into the POST
// request shape and share its flow.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	req, err := bindSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid query parameter: "+err.Error())
		return
	}

	s.runSearch(w, r, req)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, req searchRequest) {
	includeAnalysis := true
	if req.IncludeFilterAnalysis != nil {
		includeAnalysis = *req.IncludeFilterAnalysis
	}

	if req.Limit <= 0 && s.defaultLimit > 0 {
		req.Limit = s.defaultLimit
	}
	if s.maxLimit > 0 && req.Limit > s.maxLimit {
		req.Limit = s.maxLimit
	}

	searchReq, err := request.New(
		req.Query,
		req.ParsedQueries,
		req.Filters,
		req.Limit,
		req.Offset,
		req.ScoreThreshold,
		req.SkipIDs,
		includeAnalysis,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Search(ctx, &searchReq)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("unknown", "error").Inc()
		if errors.Is(err, domain.ErrParserUnavailable) {
			writeError(w, http.StatusBadRequest, codeBadRequest,
				"Provide parsed_queries or configure OpenAI API key for auto-parsing")
			return
		}
		s.handleDomainError(w, err)
		return
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(resp.QueryMode), "ok").Inc()
	metrics.SearchDuration.WithLabelValues(string(resp.QueryMode)).Observe(resp.SearchTimeMs / 1000)
	metrics.SearchResultsReturned.Observe(float64(len(resp.Results)))

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, toSearchResponse(resp))
}

// Parse handles POST /parse.
func (s *Server) Parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query is required")
		return
	}

	parsed, err := s.parse.Parse(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, domain.ErrParserUnavailable) {
			writeError(w, http.StatusServiceUnavailable, codeParserUnavailable,
				"Query parsing unavailable - OpenAI API key not configured")
			return
		}
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toParseResponse(parsed))
}

// Ingest handles POST /ingest.
func (s *Server) Ingest(w http.ResponseWriter, r *http.Request) {
	var src profile.Source
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	p, decision, err := s.ingest.Ingest(ctx, src)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, ingestResponse{
		ID:       p.ID,
		Decision: string(decision),
		Profile:  p.Payload(),
	})
}

// IngestBatch handles POST /ingest/batch. The body is a bare array of
// source documents; outcomes are reported per item. Oversized batches
// are rejected by the ingest service, item by item.
func (s *Server) IngestBatch(w http.ResponseWriter, r *http.Request) {
	var srcs []profile.Source
	if err := json.NewDecoder(r.Body).Decode(&srcs); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(srcs) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "batch must contain at least one profile")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results := s.ingest.IngestBatch(ctx, srcs)

	succeeded, failed := 0, 0
	items := make([]batchResultItem, len(results))
	for i, res := range results {
		items[i] = toBatchItem(res)
		if res.Status() == dombatch.StatusOK {
			succeeded++
		} else {
			failed++
		}
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, batchResponse{
		Items:     items,
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// GetProfile handles GET /profile/{id}.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := gochi.URLParam(r, "id")

	p, err := s.ingest.Profile(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:      p.ID,
		Payload: p.Payload(),
	})
}

// DeleteProfile handles DELETE /profile/{id}.
func (s *Server) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := gochi.URLParam(r, "id")

	if err := s.ingest.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CollectionInfo handles GET /collection/info.
func (s *Server) CollectionInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.collections.Info(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCollectionInfo(info))
}

// Usage handles GET /usage.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period := domusage.PeriodMonth
	switch r.URL.Query().Get("period") {
	case "day":
		period = domusage.PeriodDay
	case "total":
		period = domusage.PeriodTotal
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, toUsageResponse(report))
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, toHealthResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProfileNotFound,
		domain.ErrMissingProfileID,
		domain.ErrInvalidProfile,
		domain.ErrCollectionNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrParserUnavailable,
		domain.ErrRateLimited,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func batchErrorCode(err error) errCode {
	switch {
	case errors.Is(err, domain.ErrMissingProfileID),
		errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrVectorDimMismatch):
		return codeValidationFailed
	case errors.Is(err, domain.ErrEmbeddingQuotaExceeded):
		return codeEmbeddingQuotaExceeded
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		return codeEmbeddingProviderError
	case errors.Is(err, domain.ErrRateLimited):
		return codeRateLimited
	default:
		return codeInternalError
	}
}
