// Package ledger defines the persistent triage ledger: a store of ticket
// records keyed by issue number, plus the reconciler that merges fresh
// observations into it without clobbering human-entered fields.
package ledger

import (
	"context"
	"errors"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

// ErrNotFound is returned when no record exists for the requested ID.
var ErrNotFound = errors.New("ticket not found")

// Filter narrows a List call. Zero-value fields are ignored.
type Filter struct {
	Status        ticket.Status
	NeedsRetriage *bool
}

// Store is the ledger backend, keyed by ticket ID. Implementations must
// make Put atomic per record: a record's automated fields are committed as
// a unit or not at all. The store is single-writer within a run.
type Store interface {
	// Init creates the backing schema. Idempotent.
	Init(ctx context.Context) error

	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*ticket.Record, error)

	// Put upserts a record in place. Known IDs are updated, never duplicated.
	Put(ctx context.Context, rec *ticket.Record) error

	// List returns records matching the filter, ordered by ID.
	List(ctx context.Context, filter Filter) ([]*ticket.Record, error)

	// SetStatus applies a human status transition, validating the edge
	// unless force is set.
	SetStatus(ctx context.Context, id int64, to ticket.Status, force bool) error

	Close() error
}

// NeedsRetriage is a convenience for Filter literals.
func NeedsRetriage(b bool) *bool { return &b }
