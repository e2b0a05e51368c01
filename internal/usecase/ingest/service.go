// Package ingest reconciles incoming source documents against the stored
// index state: full rebuilds for new or forced profiles, minimal
// hash-driven diffs for existing ones, and a one-time narrative pass.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
	dombatch "github.com/kailas-cloud/matchdex/internal/domain/batch"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/domain/profile"
	"github.com/kailas-cloud/matchdex/internal/domain/reconcile"
	"github.com/kailas-cloud/matchdex/internal/metrics"
)

// MaxBatchSize is the maximum number of profiles per batch request.
const MaxBatchSize = 100

// Service reconciles source profiles into the vector index.
type Service struct {
	store        ProfileStore
	dense        DenseEmbedder
	multi        MultiEmbedder
	narrator     NarrativeGenerator
	cdnBaseURL   string
	maxBatchSize int
	logger       *zap.Logger
	now          func() time.Time
}

// New creates an ingest service. narrator can be nil when narrative
// generation is not configured; owed narratives are then skipped and stay
// owed, so a later configured run generates them.
func New(
	store ProfileStore, dense DenseEmbedder, multi MultiEmbedder,
	narrator NarrativeGenerator, cdnBaseURL string, logger *zap.Logger,
) *Service {
	return &Service{
		store:        store,
		dense:        dense,
		multi:        multi,
		narrator:     narrator,
		cdnBaseURL:   cdnBaseURL,
		maxBatchSize: MaxBatchSize,
		logger:       logger,
		now:          time.Now,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Ingest reconciles one source document and returns the computed profile
// with the decision taken.
//
// Ineligible profiles are never created; an existing one is patched to
// ineligible without touching any other field. Eligible profiles get a
// full rebuild when new or forced, otherwise the minimal hash-driven diff.
// The returned profile is the transform of the source document; generated
// narrative fields are persisted but not echoed back.
//
// Concurrent ingestion of the same id is not locked: two reconciliations
// can both read the old state and the last write wins per field.
func (s *Service) Ingest(ctx context.Context, src profile.Source) (profile.Profile, reconcile.Decision, error) {
	start := time.Now()

	p, err := src.Transform(s.cdnBaseURL, s.now())
	if err != nil {
		return profile.Profile{}, "", err
	}

	existing, err := s.store.Get(ctx, p.ID)
	exists := err == nil
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return profile.Profile{}, "", fmt.Errorf("load stored profile: %w", err)
	}

	decision := reconcile.Decide(exists, p.IsCirculateable, src.ForceUpdate)

	switch decision {
	case reconcile.DecisionSkip:
		s.logger.Info("Skipping ineligible absent profile", zap.String("profile_id", p.ID))
	case reconcile.DecisionMarkIneligible:
		if err := s.store.PatchPayload(ctx, p.ID, reconcile.IneligiblePatch()); err != nil {
			return profile.Profile{}, decision, err
		}
	case reconcile.DecisionFullUpsert:
		if err := s.fullUpsert(ctx, p); err != nil {
			return profile.Profile{}, decision, err
		}
	case reconcile.DecisionSmartUpdate:
		if err := s.smartUpdate(ctx, p, existing); err != nil {
			return profile.Profile{}, decision, err
		}
	}

	metrics.IngestDecisionsTotal.WithLabelValues(string(decision)).Inc()
	metrics.IngestDuration.WithLabelValues(string(decision)).Observe(time.Since(start).Seconds())
	return p, decision, nil
}

// IngestBatch reconciles source documents one by one with per-item
// outcomes. A quota or rate-limit failure cascades: once the provider
// rejects on spend, the remaining items fail without further calls.
func (s *Service) IngestBatch(ctx context.Context, srcs []profile.Source) []dombatch.Result {
	results := make([]dombatch.Result, len(srcs))

	if len(srcs) > s.maxBatchSize {
		for i, src := range srcs {
			results[i] = dombatch.NewError(
				src.ID,
				fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidProfile),
			)
		}
		return results
	}

	for i, src := range srcs {
		p, decision, err := s.Ingest(ctx, src)
		if err != nil {
			results[i] = dombatch.NewError(src.ID, err)
			if errors.Is(err, domain.ErrEmbeddingQuotaExceeded) || errors.Is(err, domain.ErrRateLimited) {
				for j := i + 1; j < len(srcs); j++ {
					results[j] = dombatch.NewError(srcs[j].ID, err)
				}
				return results
			}
			continue
		}
		results[i] = dombatch.NewOK(p.ID, decision)
	}

	return results
}

// Profile returns the stored profile for an external id.
func (s *Service) Profile(ctx context.Context, externalID string) (profile.Profile, error) {
	if externalID == "" {
		return profile.Profile{}, domain.ErrMissingProfileID
	}
	return s.store.Get(ctx, externalID)
}

// Delete removes the stored profile for an external id.
func (s *Service) Delete(ctx context.Context, externalID string) error {
	if externalID == "" {
		return domain.ErrMissingProfileID
	}
	return s.store.Delete(ctx, externalID)
}

// fullUpsert rebuilds the whole point: every derived vector plus the full
// payload. Nothing is written when no field produces a vector.
func (s *Service) fullUpsert(ctx context.Context, p profile.Profile) error {
	vectors := make(map[string]plan.Vector)

	if p.Education != "" {
		vec, err := s.embedDense(ctx, profile.VectorEducation, p.Education)
		if err != nil {
			return err
		}
		vectors[profile.VectorEducation] = vec
	}
	if p.Profession != "" {
		vec, err := s.embedDense(ctx, profile.VectorProfession, p.Profession)
		if err != nil {
			return err
		}
		vectors[profile.VectorProfession] = vec
	}

	if narrative, vec, ok := s.generateNarrative(ctx, p); ok {
		applyNarrative(&p, narrative)
		vectors[profile.VectorVibeReport] = vec
	}

	if len(vectors) == 0 {
		s.logger.Warn("No vectors produced, skipping index write", zap.String("profile_id", p.ID))
		return nil
	}
	return s.store.UpsertFull(ctx, p, vectors)
}

// smartUpdate applies the minimal diff: hash-driven text regenerations,
// field-by-field payload patches, the owed narrative, and the debounced
// last-active write. Nothing is written until every regeneration succeeded.
func (s *Service) smartUpdate(ctx context.Context, incoming, existing profile.Profile) error {
	diff := reconcile.Compute(existing, incoming)

	patch := diff.Payload()
	vectors := make(map[string]plan.Vector)

	for field, text := range diff.EmbedTexts() {
		vec, err := s.embedDense(ctx, field, text)
		if err != nil {
			return err
		}
		vectors[field] = vec
		metrics.IngestVectorUpdatesTotal.WithLabelValues(field).Inc()
	}

	if diff.NeedsNarrative() {
		if narrative, vec, ok := s.generateNarrative(ctx, incoming); ok {
			for field, value := range narrativePatch(incoming, narrative) {
				patch[field] = value
			}
			vectors[profile.VectorVibeReport] = vec
			metrics.IngestVectorUpdatesTotal.WithLabelValues(profile.VectorVibeReport).Inc()
		}
	}

	hasOtherUpdates := len(patch) > 0 || len(vectors) > 0
	if reconcile.ShouldUpdateLastActive(incoming.LastActive, existing.LastActive, hasOtherUpdates) {
		patch[profile.FieldLastActive] = incoming.Payload()[profile.FieldLastActive]
	}

	if len(patch) > 0 {
		if err := s.store.PatchPayload(ctx, incoming.ID, patch); err != nil {
			return err
		}
	}
	if len(vectors) > 0 {
		if err := s.store.UpdateVectors(ctx, incoming.ID, vectors); err != nil {
			return err
		}
	}
	return nil
}

// generateNarrative runs the one-time narrative pipeline: synthesis plus
// its late-interaction vector. Failures at either stage are logged and
// reported as "not generated", so the owing hash stays absent and a later
// run retries; persisting the text without its vector would mark the
// generation done while leaving the space unsearchable.
func (s *Service) generateNarrative(ctx context.Context, p profile.Profile) (domain.Narrative, plan.Vector, bool) {
	if s.narrator == nil {
		s.logger.Info("Narrative generation not configured, skipping", zap.String("profile_id", p.ID))
		metrics.IngestNarrativesTotal.WithLabelValues("unconfigured").Inc()
		return domain.Narrative{}, plan.Vector{}, false
	}

	narrative, err := s.narrator.Generate(ctx, narrativeInput(p))
	if err != nil {
		s.logger.Error("Narrative generation failed",
			zap.String("profile_id", p.ID),
			zap.Error(err),
		)
		metrics.IngestNarrativesTotal.WithLabelValues("failed").Inc()
		return domain.Narrative{}, plan.Vector{}, false
	}
	if narrative.VibeReport == "" {
		s.logger.Warn("Narrative returned no report", zap.String("profile_id", p.ID))
		metrics.IngestNarrativesTotal.WithLabelValues("empty").Inc()
		return domain.Narrative{}, plan.Vector{}, false
	}

	res, err := s.multi.EmbedMulti(ctx, narrative.VibeReport)
	if err != nil {
		s.logger.Error("Narrative embedding failed",
			zap.String("profile_id", p.ID),
			zap.Error(err),
		)
		metrics.IngestNarrativesTotal.WithLabelValues("failed").Inc()
		return domain.Narrative{}, plan.Vector{}, false
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	metrics.IngestNarrativesTotal.WithLabelValues("generated").Inc()
	return narrative, plan.Multi(res.Vectors), true
}

func (s *Service) embedDense(ctx context.Context, field, text string) (plan.Vector, error) {
	res, err := s.dense.Embed(ctx, text)
	if err != nil {
		return plan.Vector{}, domain.NewFieldEmbeddingError(field, err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	return plan.Dense(res.Embedding), nil
}

// applyNarrative stamps generated narrative fields onto the profile. The
// stored hash fingerprints the generation inputs, not the output, so a
// regenerated-but-different narrative never looks like a change.
func applyNarrative(p *profile.Profile, n domain.Narrative) {
	p.VibeReport = n.VibeReport
	p.VibeReportHash = p.NarrativeInputHash()
	p.ProfileHook = n.ProfileHook
	p.LifeStyleTags = n.LifeStyleTags
}

// narrativePatch serializes generated narrative fields the same way a
// full payload write would.
func narrativePatch(p profile.Profile, n domain.Narrative) map[string]any {
	enriched := p
	applyNarrative(&enriched, n)
	full := enriched.Payload()
	return map[string]any{
		profile.FieldVibeReport:     full[profile.FieldVibeReport],
		profile.FieldVibeReportHash: full[profile.FieldVibeReportHash],
		profile.FieldProfileHook:    full[profile.FieldProfileHook],
		profile.FieldLifeStyleTags:  full[profile.FieldLifeStyleTags],
	}
}

func narrativeInput(p profile.Profile) domain.NarrativeInput {
	photos := make([]domain.NarrativePhoto, 0, len(p.Photos))
	for _, ph := range p.Photos {
		photos = append(photos, domain.NarrativePhoto{ID: ph.ShowCaseID, URL: ph.URL})
	}
	return domain.NarrativeInput{
		Education:  p.Education,
		Profession: p.Profession,
		Interests:  p.Interests,
		Blurb:      p.Blurb,
		Photos:     photos,
	}
}
