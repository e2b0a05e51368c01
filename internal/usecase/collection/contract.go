package collection

import (
	"context"

	domcol "github.com/kailas-cloud/matchdex/internal/domain/collection"
)

// StateReader reports the backing collection's live state.
type StateReader interface {
	CollectionInfo(ctx context.Context) (domcol.Info, error)
}
