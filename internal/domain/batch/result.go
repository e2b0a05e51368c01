// Package batch carries per-item outcomes of bulk profile ingestion.
package batch

import "github.com/kailas-cloud/matchdex/internal/domain/reconcile"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of reconciling one profile in a batch ingestion.
type Result struct {
	id       string
	status   ItemStatus
	decision reconcile.Decision
	err      error
}

// NewOK creates a successful batch result carrying the decision taken.
func NewOK(id string, decision reconcile.Decision) Result {
	return Result{id: id, status: StatusOK, decision: decision}
}

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the profile identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Decision returns the reconciliation decision of a successful item.
func (r Result) Decision() reconcile.Decision { return r.decision }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }
