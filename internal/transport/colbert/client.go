// Package colbert talks to a BGE-M3 late-interaction embedding service
// over HTTP. The service returns one vector per token; scoring against
// stored multivectors happens in the index (MaxSim).
package colbert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/metrics"
)

const (
	providerLabel = "colbert"
	modelLabel    = "bge-m3"
)

// Client is a late-interaction embedding provider.
type Client struct {
	baseURL    string
	dimensions int
	httpClient *http.Client
	logger     *zap.Logger

	probeOnce sync.Once
}

// Config holds the colbert service settings.
type Config struct {
	BaseURL    string
	Dimensions int
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewClient creates a colbert embedding client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		dimensions: cfg.Dimensions,
		httpClient: &http.Client{Timeout: timeout},
		logger:     cfg.Logger,
	}
}

// embedRequest is the service request body.
type embedRequest struct {
	Inputs []string `json:"inputs"`
}

// EmbedMulti implements domain.MultiEmbedder. Blank text maps to a single
// zero-vector row without a service call, mirroring how absent profile
// fields are stored in the index.
func (c *Client) EmbedMulti(ctx context.Context, text string) (domain.MultiEmbeddingResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.MultiEmbeddingResult{
			Vectors: [][]float32{make([]float32, c.dimensions)},
		}, nil
	}

	// First call probes service health once; a cold model server can take
	// a while to load weights, so failure is logged, not fatal.
	c.probeOnce.Do(func() {
		if err := c.HealthCheck(ctx); err != nil && c.logger != nil {
			c.logger.Warn("colbert service not ready", zap.Error(err))
		}
	})

	body, err := json.Marshal(embedRequest{Inputs: []string{text}})
	if err != nil {
		return domain.MultiEmbeddingResult{}, fmt.Errorf("encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return domain.MultiEmbeddingResult{}, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.httpClient.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, modelLabel, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerLabel, modelLabel, "transport_error").Inc()
		return domain.MultiEmbeddingResult{}, fmt.Errorf("colbert embed: %w: %w", err, domain.ErrEmbeddingProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, modelLabel, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerLabel, modelLabel, "api_error").Inc()
		return domain.MultiEmbeddingResult{}, statusError(resp)
	}

	// One [tokens][dims] matrix per input text.
	var matrices [][][]float32
	if err := json.NewDecoder(resp.Body).Decode(&matrices); err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, modelLabel, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerLabel, modelLabel, "decode_error").Inc()
		return domain.MultiEmbeddingResult{}, fmt.Errorf("decode embed response: %w: %w", err, domain.ErrEmbeddingProviderError)
	}

	if len(matrices) != 1 || len(matrices[0]) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, modelLabel, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerLabel, modelLabel, "empty_response").Inc()
		return domain.MultiEmbeddingResult{}, fmt.Errorf(
			"colbert returned %d matrices for 1 input: %w", len(matrices), domain.ErrEmbeddingProviderError)
	}

	vectors := matrices[0]
	for i, row := range vectors {
		if len(row) != c.dimensions {
			metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, modelLabel, "error").Inc()
			metrics.EmbeddingErrorsTotal.WithLabelValues(providerLabel, modelLabel, "dim_mismatch").Inc()
			return domain.MultiEmbeddingResult{}, fmt.Errorf(
				"colbert row %d has %d dims, expected %d: %w",
				i, len(row), c.dimensions, domain.ErrEmbeddingProviderError)
		}
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, modelLabel, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerLabel, modelLabel).Observe(duration.Seconds())

	return domain.MultiEmbeddingResult{Vectors: vectors}, nil
}

// HealthCheck verifies colbert service availability.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("colbert health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("colbert health: status %d", resp.StatusCode)
	}
	return nil
}

// statusError converts a non-200 response into a wrapped domain error.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	wrap := domain.ErrEmbeddingProviderError
	if resp.StatusCode == http.StatusTooManyRequests {
		wrap = domain.ErrRateLimited
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("colbert embed: status %d: %w", resp.StatusCode, wrap)
	}
	return fmt.Errorf("colbert embed: status %d: %s: %w", resp.StatusCode, msg, wrap)
}
