package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/cache"
	cacheRedis "github.com/kailas-cloud/matchdex/internal/cache/redis"
	"github.com/kailas-cloud/matchdex/internal/config"
	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/domain/collection"
	"github.com/kailas-cloud/matchdex/internal/index/qdrant"
	logpkg "github.com/kailas-cloud/matchdex/internal/logger"
	"github.com/kailas-cloud/matchdex/internal/metrics"
	budgetrepo "github.com/kailas-cloud/matchdex/internal/repository/budget"
	"github.com/kailas-cloud/matchdex/internal/repository/embcache"
	profilerepo "github.com/kailas-cloud/matchdex/internal/repository/profile"
	searchrepo "github.com/kailas-cloud/matchdex/internal/repository/search"
	chiTransport "github.com/kailas-cloud/matchdex/internal/transport/chi"
	colbertTransport "github.com/kailas-cloud/matchdex/internal/transport/colbert"
	openaiTransport "github.com/kailas-cloud/matchdex/internal/transport/openai"
	collectionuc "github.com/kailas-cloud/matchdex/internal/usecase/collection"
	embeddinguc "github.com/kailas-cloud/matchdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/matchdex/internal/usecase/health"
	impactuc "github.com/kailas-cloud/matchdex/internal/usecase/impact"
	ingestuc "github.com/kailas-cloud/matchdex/internal/usecase/ingest"
	parseuc "github.com/kailas-cloud/matchdex/internal/usecase/parse"
	searchuc "github.com/kailas-cloud/matchdex/internal/usecase/search"
	usageuc "github.com/kailas-cloud/matchdex/internal/usecase/usage"
	"github.com/kailas-cloud/matchdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting matchdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("qdrant_addr", cfg.Qdrant.Addr),
		zap.String("collection", cfg.Qdrant.Collection),
	)

	// Vector index
	idx, err := qdrant.New(qdrant.Config{
		Addr:        cfg.Qdrant.Addr,
		APIKey:      cfg.Qdrant.APIKey,
		Collection:  cfg.Qdrant.Collection,
		UpsertBatch: cfg.Qdrant.UpsertBatchSize,
	})
	if err != nil {
		logger.Fatal("Failed to create index client", zap.Error(err))
	}
	defer func() { _ = idx.Close() }()

	ctx := context.Background()
	if err := idx.WaitForReady(ctx, time.Duration(cfg.Qdrant.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Index not ready", zap.Error(err))
	}
	logger.Info("Connected to vector index")

	created, err := idx.EnsureCollection(ctx)
	if err != nil {
		logger.Fatal("Failed to ensure collection", zap.Error(err))
	}
	if created {
		logger.Info("Created collection with vector schema and payload indexes",
			zap.String("collection", cfg.Qdrant.Collection))
	}

	// Optional cache store: embedding cache plus persistent budget counters.
	var cacheStore cache.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err := cacheRedis.NewStore(cacheRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		cacheStore = store
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	} else {
		logger.Info("Cache not configured, embeddings will not be cached")
	}

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterIngestMetrics()

	// Single BudgetTracker shared across all embedders and usage service.
	var budget *embeddinguc.BudgetTracker
	budgetCfg := cfg.OpenAI.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := embeddinguc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = embeddinguc.BudgetActionReject
		}
		budget = embeddinguc.NewBudgetTracker(
			budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
		// Connect persistence store — loads current counters from the cache.
		if cacheStore != nil {
			budgetStore := budgetrepo.New(cacheStore, 48*time.Hour, 62*24*time.Hour)
			budget.WithStore(ctx, budgetStore)
		}
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker embeddinguc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	// Dense embedder chain: OpenAI -> Cached -> Instrumented. Search and
	// ingest get separate instrumented decorators over one cached inner,
	// so token spend is attributed per operation.
	searchDense, ingestDense := buildDenseEmbedders(cfg, cacheStore, budgetChecker, logger)

	// Late-interaction chain: colbert -> Cached -> Instrumented. The
	// service is self-hosted, so no budget applies.
	colbertClient := colbertTransport.NewClient(&colbertTransport.Config{
		BaseURL:    cfg.Colbert.BaseURL,
		Dimensions: cfg.Colbert.Dimensions,
		Timeout:    time.Duration(cfg.Colbert.TimeoutSec) * time.Second,
		Logger:     logger,
	})
	searchMulti, ingestMulti := buildMultiEmbedders(colbertClient, cacheStore, logger)

	logger.Info("Embedders created",
		zap.String("dense_model", cfg.OpenAI.EmbeddingModel),
		zap.String("colbert_url", cfg.Colbert.BaseURL),
		zap.Bool("cached", cacheStore != nil),
	)

	// Parser and narrator need an OpenAI key. Without one, auto-parsing
	// and narrative generation are disabled; filter search still works.
	// Same typed-nil gotcha as the budget checker above.
	var queryParser parseuc.QueryParser
	var narrator ingestuc.NarrativeGenerator
	if cfg.OpenAI.APIKey != "" {
		queryParser = openaiTransport.NewParser(&openaiTransport.ParserConfig{
			APIKey: cfg.OpenAI.APIKey,
			Model:  cfg.OpenAI.ParserModel,
			Logger: logger,
		})
		narrator = openaiTransport.NewNarrator(&openaiTransport.NarratorConfig{
			APIKey: cfg.OpenAI.APIKey,
			Model:  cfg.OpenAI.NarrativeModel,
			Logger: logger,
		})
	} else {
		logger.Warn("OpenAI API key not configured, query parsing and narratives disabled")
	}

	// Create repositories over the index
	searchRepo := searchrepo.New(idx)
	profileRepo := profilerepo.New(idx)

	// Create use case services
	parseSvc := parseuc.New(queryParser, logger)
	impactSvc := impactuc.New(searchRepo)
	searchSvc := searchuc.New(searchRepo, parseSvc, searchDense, searchMulti, impactSvc)
	ingestSvc := ingestuc.New(
		profileRepo, ingestDense, ingestMulti, narrator, cfg.Ingest.CDNBaseURL, logger,
	).WithMaxBatchSize(cfg.Ingest.MaxBatchSize)
	collectionSvc := collectionuc.New(idx)

	// Usage service — reads from shared BudgetTracker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}
	usageSvc := usageuc.New(budgetReader)

	// Health service — cache and colbert checks only when configured
	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	var embChecker healthuc.EmbeddingChecker
	if cfg.Colbert.BaseURL != "" {
		embChecker = colbertClient
	}
	healthSvc := healthuc.New(idx, cachePinger, embChecker)

	// Create chi server
	server := chiTransport.NewServer(
		searchSvc, parseSvc, ingestSvc, collectionSvc, usageSvc, healthSvc, logger,
	).WithSearchLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildDenseEmbedders assembles the dense chain for both operations.
// The cached inner is shared; the instrumented decorators differ only in
// the operation label their spend is recorded under.
func buildDenseEmbedders(
	cfg config.Config,
	store cache.Store,
	budget embeddinguc.BudgetChecker,
	logger *zap.Logger,
) (*embeddinguc.InstrumentedEmbedder, *embeddinguc.InstrumentedEmbedder) {
	denseDim := 0
	for _, space := range collection.Spaces() {
		if !space.IsMulti() {
			denseDim = space.Dim()
			break
		}
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.OpenAI.APIKey,
		Model:      cfg.OpenAI.EmbeddingModel,
		Dimensions: denseDim,
		Provider:   collection.ProviderOpenAI,
		Logger:     logger,
	})

	var inner domain.Embedder = base
	if store != nil {
		inner = embcache.New(base, store, collection.ProviderOpenAI, metrics.EmbeddingCacheTotal, logger)
	}

	search := embeddinguc.NewInstrumentedEmbedder(
		inner, collection.ProviderOpenAI, cfg.OpenAI.EmbeddingModel,
		embeddinguc.OpSearch, budget, logger,
	)
	ingest := embeddinguc.NewInstrumentedEmbedder(
		inner, collection.ProviderOpenAI, cfg.OpenAI.EmbeddingModel,
		embeddinguc.OpIngest, budget, logger,
	)
	return search, ingest
}

// buildMultiEmbedders assembles the late-interaction chain for both
// operations over one shared cached inner. Budget is nil: the colbert
// service is self-hosted and has no token cost.
func buildMultiEmbedders(
	client *colbertTransport.Client,
	store cache.Store,
	logger *zap.Logger,
) (*embeddinguc.InstrumentedMultiEmbedder, *embeddinguc.InstrumentedMultiEmbedder) {
	var inner domain.MultiEmbedder = client
	if store != nil {
		inner = embcache.NewMulti(client, store, collection.ProviderColbert, metrics.EmbeddingCacheTotal, logger)
	}

	search := embeddinguc.NewInstrumentedMultiEmbedder(
		inner, collection.ProviderColbert, "bge-m3", embeddinguc.OpSearch, nil, logger,
	)
	ingest := embeddinguc.NewInstrumentedMultiEmbedder(
		inner, collection.ProviderColbert, "bge-m3", embeddinguc.OpIngest, nil, logger,
	)
	return search, ingest
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
