package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plateup/ordering-api/internal/domain/identity"
)

const (
	getProfileSQL = `SELECT principal_id, display_name, phone, role, created_at, updated_at
		FROM profiles WHERE principal_id = $1`

	insertProfileIfAbsentSQL = `INSERT INTO profiles (principal_id)
		VALUES ($1) ON CONFLICT (principal_id) DO NOTHING`

	upsertProfileSQL = `INSERT INTO profiles (principal_id, display_name, phone, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (principal_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    phone = EXCLUDED.phone,
		    role = EXCLUDED.role,
		    updated_at = now()`
)

var _ identity.Repository = (*ProfileRepository)(nil)

// ProfileRepository implements identity.Repository backed by PostgreSQL.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a ProfileRepository that uses the given pool.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Get returns the profile for the given principal id.
func (r *ProfileRepository) Get(ctx context.Context, principalID string) (*identity.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, getProfileSQL, principalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrProfileNotFound
		}
		return nil, fmt.Errorf("getting profile %q: %w", principalID, err)
	}
	return p, nil
}

// GetOrCreate returns the profile for the principal, provisioning a
// default-role row when none exists. The insert-if-absent on the unique
// principal_id makes concurrent first use by the same principal converge on
// a single row.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, principalID string) (*identity.Profile, error) {
	if _, err := r.pool.Exec(ctx, insertProfileIfAbsentSQL, principalID); err != nil {
		return nil, fmt.Errorf("provisioning profile %q: %w", principalID, err)
	}
	return r.Get(ctx, principalID)
}

// Upsert writes a profile with an explicit role. Used by paths that manage
// profiles themselves (seeding) instead of relying on auto-provisioning.
func (r *ProfileRepository) Upsert(ctx context.Context, p *identity.Profile) error {
	_, err := r.pool.Exec(ctx, upsertProfileSQL,
		p.PrincipalID, p.DisplayName, p.Phone, p.Role.String(),
	)
	if err != nil {
		return fmt.Errorf("upserting profile %q: %w", p.PrincipalID, err)
	}
	return nil
}

func scanProfile(row pgx.Row) (*identity.Profile, error) {
	var (
		p    identity.Profile
		role string
	)
	err := row.Scan(&p.PrincipalID, &p.DisplayName, &p.Phone, &role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Role, err = identity.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
