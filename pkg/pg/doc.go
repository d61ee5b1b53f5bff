// Package pg bootstraps the PostgreSQL layer backing the permission grid
// and profile stores: an env-driven Config, a pooled Connect with retry,
// and goose-based schema migrations.
package pg
