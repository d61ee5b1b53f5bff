package grants

import (
	"errors"
	"fmt"
)

// Domain errors for grid operations.
var (
	// ErrGrantFetch is returned when the grid cannot be read.
	ErrGrantFetch = errors.New("grants.fetch_failed")

	// ErrInvalidRole is returned when an operation references an unknown role.
	ErrInvalidRole = errors.New("grants.invalid_role")

	// ErrEmptyUpdate is returned when a bulk update carries no rows.
	ErrEmptyUpdate = errors.New("grants.empty_update")
)

// PartialUpdateError reports a bulk grid update where some rows failed.
// Updates carry no cross-row transactionality, so successful rows remain
// applied; callers must not invalidate caches unless the whole batch
// succeeded.
type PartialUpdateError struct {
	Failed int
	Total  int
	Errs   []error
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("grants: %d of %d updates failed", e.Failed, e.Total)
}

func (e *PartialUpdateError) Unwrap() []error { return e.Errs }
