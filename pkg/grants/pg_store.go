package grants

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the production Store backed by the role_permissions table.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a grid store over a pgx connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const listGrantsQuery = `
SELECT role, module, action, allowed
FROM role_permissions
WHERE role = $1`

// ListGrants returns every grant recorded for the role.
func (s *PGStore) ListGrants(ctx context.Context, role Role) ([]Grant, error) {
	rows, err := s.pool.Query(ctx, listGrantsQuery, string(role))
	if err != nil {
		return nil, errors.Join(ErrGrantFetch, err)
	}
	defer rows.Close()

	var out []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.Role, &g.Module, &g.Action, &g.Allowed); err != nil {
			return nil, errors.Join(ErrGrantFetch, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrGrantFetch, err)
	}
	return out, nil
}

const listAllGrantsQuery = `
SELECT role, module, action, allowed
FROM role_permissions`

// ListAllGrants returns the whole grid across all roles.
func (s *PGStore) ListAllGrants(ctx context.Context) ([]Grant, error) {
	rows, err := s.pool.Query(ctx, listAllGrantsQuery)
	if err != nil {
		return nil, errors.Join(ErrGrantFetch, err)
	}
	defer rows.Close()

	var out []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.Role, &g.Module, &g.Action, &g.Allowed); err != nil {
			return nil, errors.Join(ErrGrantFetch, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrGrantFetch, err)
	}
	return out, nil
}

const upsertGrantQuery = `
INSERT INTO role_permissions (role, module, action, allowed)
VALUES ($1, $2, $3, $4)
ON CONFLICT (role, module, action) DO UPDATE SET allowed = EXCLUDED.allowed`

// UpdateGrants writes each module-level update as four action rows.
// Rows are written individually without a surrounding transaction, so a
// failure mid-batch leaves earlier rows applied; the caller receives a
// *PartialUpdateError counting the failed rows.
func (s *PGStore) UpdateGrants(ctx context.Context, updates []Update) error {
	if len(updates) == 0 {
		return ErrEmptyUpdate
	}

	var (
		failed int
		errs   []error
		total  = len(updates) * len(Actions())
	)
	for _, u := range updates {
		for _, a := range Actions() {
			_, err := s.pool.Exec(ctx, upsertGrantQuery,
				string(u.Role), string(u.Module), string(a), u.Allowed)
			if err != nil {
				failed++
				errs = append(errs, err)
			}
		}
	}

	if failed > 0 {
		return &PartialUpdateError{Failed: failed, Total: total, Errs: errs}
	}
	return nil
}
