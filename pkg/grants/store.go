package grants

import "context"

// Store is the read/update interface over the persisted permission grid.
type Store interface {
	// ListGrants returns every grant recorded for the role,
	// allowed and denied rows alike.
	ListGrants(ctx context.Context, role Role) ([]Grant, error)

	// ListAllGrants returns the whole grid across all roles.
	ListAllGrants(ctx context.Context) ([]Grant, error)

	// UpdateGrants applies a batch of module-level changes. Rows are
	// written individually; a partial failure surfaces as a
	// *PartialUpdateError while successful rows stay applied.
	UpdateGrants(ctx context.Context, updates []Update) error
}
