// Package grants models the role → module → action permission grid that
// backs access control across the case-management application.
//
// The grid is a complete enumeration of (role, module, action) triples.
// Absence of a row is equivalent to a denied grant, so consumers can treat
// "not found" and "allowed = false" identically.
//
// Key concepts:
//
//   - Role: a closed set of user categories (administrator, director, ...)
//   - Module: a named functional area ("students", "inventory", ...)
//   - Action: read, create, update or delete, defaulting to read
//   - Grant: one (role, module, action, allowed) authorization record
//
// The package exposes a Store interface implemented by an in-memory store
// for tests and development, and a PostgreSQL store for production. Bulk
// updates carry no cross-row transactionality: individual row failures are
// counted and surfaced as a single PartialUpdateError.
//
// Basic usage:
//
//	store := grants.NewMemoryStore(seed)
//	rows, err := store.ListGrants(ctx, grants.RoleAssistant)
//	if err != nil {
//	    // fail closed: treat as no grants
//	}
package grants
