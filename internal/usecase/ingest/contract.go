package ingest

import (
	"context"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	"github.com/kailas-cloud/matchdex/internal/domain/profile"
)

// ProfileStore is the consumer interface for profile persistence (ISP).
type ProfileStore interface {
	Get(ctx context.Context, externalID string) (profile.Profile, error)
	UpsertFull(ctx context.Context, p profile.Profile, vectors map[string]plan.Vector) error
	PatchPayload(ctx context.Context, externalID string, fields map[string]any) error
	UpdateVectors(ctx context.Context, externalID string, vectors map[string]plan.Vector) error
	Delete(ctx context.Context, externalID string) error
}

// DenseEmbedder vectorizes one structured text field.
type DenseEmbedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// MultiEmbedder produces the per-token narrative vectors for
// late-interaction scoring.
type MultiEmbedder interface {
	EmbedMulti(ctx context.Context, text string) (domain.MultiEmbeddingResult, error)
}

// NarrativeGenerator synthesizes the one-time profile narrative.
type NarrativeGenerator interface {
	Generate(ctx context.Context, input domain.NarrativeInput) (domain.Narrative, error)
}
