package access

import (
	"context"

	"github.com/casekit/casekit/pkg/grants"
)

// Editor applies bulk role-access changes to the grid and keeps the
// module-access cache honest: the cache is invalidated only when the whole
// batch succeeded, since a partial failure leaves the grid in a state the
// caller must inspect first.
type Editor struct {
	store grants.Store
	cache ModuleAccess
}

// NewEditor creates an editor over the grid store and cache.
func NewEditor(store grants.Store, cache ModuleAccess) *Editor {
	return &Editor{store: store, cache: cache}
}

// Apply writes the updates. On full success the cache is invalidated so
// the next coarse lookup sees the new grid. A *grants.PartialUpdateError
// passes through unchanged.
func (e *Editor) Apply(ctx context.Context, updates []grants.Update) error {
	if err := e.store.UpdateGrants(ctx, updates); err != nil {
		return err
	}
	if e.cache != nil {
		e.cache.Invalidate()
	}
	return nil
}
