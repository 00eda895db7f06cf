package ledger

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ENGINE - Entry point for all reconciliation operations
// =============================================================================

// Engine executes the reconciliation operations against a Store. It holds no
// ledger state of its own: every derived value is recomputed from the source
// ledgers on each call.
//
// Single-writer semantics are assumed (one cashier, one terminal). The engine
// performs no locking beyond what the Store provides.
type Engine struct {
	store Store
	now   func() time.Time
	newID func() string
}

// NewEngine creates an engine backed by the given store.
func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Store returns the underlying store, for read-side projections that do not
// go through an engine operation.
func (e *Engine) Store() Store { return e.store }
