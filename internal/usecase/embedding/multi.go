package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/metrics"
)

// InstrumentedMultiEmbedder wraps MultiEmbedder with budget enforcement
// and logging, mirroring InstrumentedEmbedder for the late-interaction path.
type InstrumentedMultiEmbedder struct {
	inner    domain.MultiEmbedder
	provider string
	model    string
	op       string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedMultiEmbedder wraps a multi-vector embedder with budget
// and observability. A nil budget disables enforcement (self-hosted
// providers have no token cost).
func NewInstrumentedMultiEmbedder(
	inner domain.MultiEmbedder, provider, model, op string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedMultiEmbedder {
	return &InstrumentedMultiEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		op:       op,
		budget:   budget,
		logger:   logger,
	}
}

// EmbedMulti checks budget, delegates to the inner embedder, and records usage.
func (p *InstrumentedMultiEmbedder) EmbedMulti(
	ctx context.Context, text string,
) (domain.MultiEmbeddingResult, error) {
	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Error("Budget exceeded",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.String("op", p.op),
				zap.Error(err),
			)
			return domain.MultiEmbeddingResult{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()

	result, err := p.inner.EmbedMulti(ctx, text)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Multivector embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.MultiEmbeddingResult{}, fmt.Errorf("embed multi: %w", err)
	}

	if p.budget != nil && result.TotalTokens > 0 {
		p.budget.Record(p.op, int64(result.TotalTokens))
		remaining := metrics.EmbeddingBudgetTokensRemaining
		remaining.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
		remaining.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
	}

	p.logger.Debug("Multivector embedding completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("rows", len(result.Vectors)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}
