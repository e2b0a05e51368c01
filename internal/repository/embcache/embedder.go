// Package embcache caches embeddings in a key-value store, keyed by
// provider and content hash. Cache failures degrade to misses.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/cache"
	"github.com/kailas-cloud/matchdex/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "emb_cache:"

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedEmbedder caches dense embeddings in a key-value store. Both
// structured spaces share one provider, so identical texts share one
// cache entry.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	provider   string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. Keys are scoped by provider so
// different providers never share vectors for the same text.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Embedder,
	s store,
	provider string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		provider:   provider,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full EmbeddingResult from inner.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := cacheKey(c.provider, text)

	if data, ok := c.getFromCache(ctx, key); ok {
		if vec, err := bytesToVector(data); err == nil {
			c.incCache("hit")
			return domain.EmbeddingResult{Embedding: vec}, nil
		}
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key))
	}

	c.incCache("miss")

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.putToCache(ctx, key, vectorToCacheBytes(result.Embedding))
	return result, nil
}

// BatchEmbed serves cached texts locally and batches only the misses to
// the inner embedder, reinserting results positionally. Token counts
// cover the misses alone.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	embeddings := make([][]float32, len(texts))
	missed := make([]string, 0, len(texts))
	missedAt := make([]int, 0, len(texts))

	for i, text := range texts {
		key := cacheKey(c.provider, text)
		if data, ok := c.getFromCache(ctx, key); ok {
			if vec, err := bytesToVector(data); err == nil {
				c.incCache("hit")
				embeddings[i] = vec
				continue
			}
		}
		c.incCache("miss")
		missed = append(missed, text)
		missedAt = append(missedAt, i)
	}

	if len(missed) == 0 {
		return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
	}

	result, err := c.batchInner(ctx, missed)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	if len(result.Embeddings) != len(missed) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf(
			"batch embed: got %d embeddings for %d texts", len(result.Embeddings), len(missed))
	}

	for j, i := range missedAt {
		embeddings[i] = result.Embeddings[j]
		c.putToCache(ctx, cacheKey(c.provider, missed[j]), vectorToCacheBytes(result.Embeddings[j]))
	}

	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: result.PromptTokens,
		TotalTokens:  result.TotalTokens,
	}, nil
}

func (c *CachedEmbedder) batchInner(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if batcher, ok := c.inner.(domain.BatchEmbedder); ok {
		return batcher.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, c.inner, texts)
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedEmbedder) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	return cacheGet(ctx, c.store, c.logger, key)
}

func (c *CachedEmbedder) putToCache(ctx context.Context, key string, data []byte) {
	cachePut(ctx, c.store, c.logger, key, data)
}

func cacheGet(ctx context.Context, s store, logger *zap.Logger, key string) ([]byte, bool) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

func cachePut(ctx context.Context, s store, logger *zap.Logger, key string, data []byte) {
	if data == nil {
		return
	}
	if err := s.Set(ctx, key, data); err != nil {
		logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(provider, text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + provider + ":" + hex.EncodeToString(h[:])
}

func vectorToCacheBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
