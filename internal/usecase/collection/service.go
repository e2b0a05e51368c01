// Package collection exposes diagnostics for the single fixed collection
// the service operates on.
package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/matchdex/internal/domain"
	domcol "github.com/kailas-cloud/matchdex/internal/domain/collection"
	"github.com/kailas-cloud/matchdex/internal/index"
)

// Service handles collection diagnostics.
type Service struct {
	state StateReader
}

// New creates a collection service.
func New(state StateReader) *Service {
	return &Service{state: state}
}

// Info reports the collection's point counters and status.
func (s *Service) Info(ctx context.Context) (domcol.Info, error) {
	info, err := s.state.CollectionInfo(ctx)
	if err != nil {
		if errors.Is(err, index.ErrCollectionNotFound) {
			return domcol.Info{}, domain.ErrCollectionNotFound
		}
		return domcol.Info{}, fmt.Errorf("collection info: %w", err)
	}
	return info, nil
}
