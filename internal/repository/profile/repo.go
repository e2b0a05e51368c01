// Package profile persists canonical profiles as index points. External
// ids are mapped onto point ids here so callers never handle point ids
// directly.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
	domprof "github.com/kailas-cloud/matchdex/internal/domain/profile"
	"github.com/kailas-cloud/matchdex/internal/index"
)

// store is the consumer interface for profile points (ISP).
type store interface {
	Upsert(ctx context.Context, points []index.Point) (int, error)
	UpdateVectors(ctx context.Context, pointID string, vectors map[string]plan.Vector) error
	SetPayload(ctx context.Context, pointID string, payload map[string]any) error
	Get(ctx context.Context, pointID string) (index.Point, error)
	Delete(ctx context.Context, pointID string) error
}

// Repo implements usecase/ingest.ProfileRepository.
type Repo struct {
	store store
}

// New creates a profile repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns the stored profile for an external id.
func (r *Repo) Get(ctx context.Context, externalID string) (domprof.Profile, error) {
	point, err := r.store.Get(ctx, domprof.PointID(externalID))
	if err != nil {
		if errors.Is(err, index.ErrPointNotFound) {
			return domprof.Profile{}, domain.ErrProfileNotFound
		}
		return domprof.Profile{}, fmt.Errorf("get profile %s: %w", externalID, err)
	}
	return domprof.FromPayload(point.Payload), nil
}

// UpsertFull writes the complete point: full payload plus every provided
// vector. Existing vectors for spaces not in the map are replaced, since
// an upsert rewrites the whole point.
func (r *Repo) UpsertFull(ctx context.Context, p domprof.Profile, vectors map[string]plan.Vector) error {
	point := index.Point{
		ID:      domprof.PointID(p.ID),
		Vectors: vectors,
		Payload: p.Payload(),
	}
	if _, err := r.store.Upsert(ctx, []index.Point{point}); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

// PatchPayload merges the given fields into the stored payload without
// touching vectors or unlisted fields.
func (r *Repo) PatchPayload(ctx context.Context, externalID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.store.SetPayload(ctx, domprof.PointID(externalID), fields); err != nil {
		return fmt.Errorf("patch profile %s: %w", externalID, err)
	}
	return nil
}

// UpdateVectors replaces the named vectors of the stored point, leaving
// the payload and untouched spaces intact.
func (r *Repo) UpdateVectors(ctx context.Context, externalID string, vectors map[string]plan.Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	if err := r.store.UpdateVectors(ctx, domprof.PointID(externalID), vectors); err != nil {
		return fmt.Errorf("update vectors %s: %w", externalID, err)
	}
	return nil
}

// Delete removes the stored point for an external id.
func (r *Repo) Delete(ctx context.Context, externalID string) error {
	pointID := domprof.PointID(externalID)

	if _, err := r.store.Get(ctx, pointID); err != nil {
		if errors.Is(err, index.ErrPointNotFound) {
			return domain.ErrProfileNotFound
		}
		return fmt.Errorf("check profile %s: %w", externalID, err)
	}

	if err := r.store.Delete(ctx, pointID); err != nil {
		return fmt.Errorf("delete profile %s: %w", externalID, err)
	}
	return nil
}
