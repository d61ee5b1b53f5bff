package access

import "errors"

var (
	// ErrCacheRefresh indicates the module-access cache could not rebuild
	// from the grid and answered from the built-in fallback table.
	ErrCacheRefresh = errors.New("access.cache_refresh_failed")

	// ErrGrantFetch indicates the resolver could not load grants for the
	// active role; checks fail closed until the next refresh.
	ErrGrantFetch = errors.New("access.grant_fetch_failed")
)
