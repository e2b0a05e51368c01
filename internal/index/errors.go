package index

import "errors"

// Sentinel errors for index operations.
var (
	ErrPointNotFound      = errors.New("index: point not found")
	ErrCollectionNotFound = errors.New("index: collection not found")
)

// Op constants map to Qdrant RPC names for error context.
const (
	OpHealthCheck      = "Qdrant.HealthCheck"
	OpCreateCollection = "Collections.Create"
	OpCollectionExists = "Collections.CollectionExists"
	OpCollectionGet    = "Collections.Get"
	OpCreateFieldIndex = "Points.CreateFieldIndex"
	OpUpsert           = "Points.Upsert"
	OpUpdateVectors    = "Points.UpdateVectors"
	OpSetPayload       = "Points.SetPayload"
	OpGet              = "Points.Get"
	OpDelete           = "Points.Delete"
	OpCount            = "Points.Count"
	OpQuery            = "Points.Query"
	OpScroll           = "Points.Scroll"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
