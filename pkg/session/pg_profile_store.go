package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGProfileStore is the production ProfileStore backed by the profiles table.
type PGProfileStore struct {
	pool *pgxpool.Pool
}

// NewPGProfileStore constructs a profile store over a pgx connection pool.
func NewPGProfileStore(pool *pgxpool.Pool) *PGProfileStore {
	return &PGProfileStore{pool: pool}
}

const getProfileQuery = `
SELECT id, user_id, full_name, role, active, created_at, updated_at
FROM profiles
WHERE user_id = $1`

// GetProfile returns the profile for the user, or ErrProfileNotFound.
func (s *PGProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := s.pool.QueryRow(ctx, getProfileQuery, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Role, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, errors.Join(ErrProfileFetch, err)
	}
	return &p, nil
}
