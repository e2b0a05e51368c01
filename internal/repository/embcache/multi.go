package embcache

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// CachedMultiEmbedder caches late-interaction (per-token) embeddings.
// Narrative texts are long and change rarely, so hit rates are high and
// a miss is the expensive path.
type CachedMultiEmbedder struct {
	inner      domain.MultiEmbedder
	store      store
	provider   string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewMulti creates a caching decorator for a multi-vector embedder.
// Keys share the same scheme as dense entries but live under a distinct
// provider scope, so the two codecs never read each other's bytes.
func NewMulti(
	inner domain.MultiEmbedder,
	s store,
	provider string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedMultiEmbedder {
	return &CachedMultiEmbedder{
		inner:      inner,
		store:      s,
		provider:   provider,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// EmbedMulti returns a cached vector matrix or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
func (c *CachedMultiEmbedder) EmbedMulti(ctx context.Context, text string) (domain.MultiEmbeddingResult, error) {
	key := cacheKey(c.provider, text)

	if data, ok := c.getFromCache(ctx, key); ok {
		if vectors, err := bytesToMulti(data); err == nil {
			c.incCache("hit")
			return domain.MultiEmbeddingResult{Vectors: vectors}, nil
		}
		c.logger.Warn("Failed to parse cached multivector", zap.String("key", key))
	}

	c.incCache("miss")

	result, err := c.inner.EmbedMulti(ctx, text)
	if err != nil {
		return domain.MultiEmbeddingResult{}, fmt.Errorf("embed multi: %w", err)
	}

	c.putToCache(ctx, key, multiToCacheBytes(result.Vectors))
	return result, nil
}

func (c *CachedMultiEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedMultiEmbedder) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	return cacheGet(ctx, c.store, c.logger, key)
}

func (c *CachedMultiEmbedder) putToCache(ctx context.Context, key string, data []byte) {
	cachePut(ctx, c.store, c.logger, key, data)
}

// multiToCacheBytes encodes a [rows][dims] matrix as a uint32 row count
// followed by the flattened float32 rows, everything little-endian.
// All rows must have equal width; ragged input returns nil (not cached).
func multiToCacheBytes(vectors [][]float32) []byte {
	if len(vectors) == 0 {
		return nil
	}
	dims := len(vectors[0])
	for _, row := range vectors[1:] {
		if len(row) != dims {
			return nil
		}
	}

	buf := make([]byte, 4+len(vectors)*dims*4)
	binary.LittleEndian.PutUint32(buf, uint32(len(vectors)))
	off := 4
	for _, row := range vectors {
		for _, f := range row {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return buf
}

// bytesToMulti decodes the row-count-plus-flattened-rows format.
func bytesToMulti(data []byte) ([][]float32, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("invalid multivector cache data: len=%d", len(data))
	}
	rows := int(binary.LittleEndian.Uint32(data))
	payload := data[4:]

	if rows <= 0 || len(payload)%4 != 0 {
		return nil, fmt.Errorf("invalid multivector cache data: rows=%d len=%d", rows, len(data))
	}
	floats := len(payload) / 4
	if floats%rows != 0 {
		return nil, fmt.Errorf("invalid multivector cache data: %d floats not divisible by %d rows", floats, rows)
	}
	dims := floats / rows

	vectors := make([][]float32, rows)
	off := 0
	for i := range vectors {
		row := make([]float32, dims)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(payload[off:]))
			off += 4
		}
		vectors[i] = row
	}
	return vectors, nil
}
