package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plateup/ordering-api/internal/domain/catalog"
)

const (
	restaurantColumns = `id, owner_id, name, description, address, phone, active, created_at, updated_at`

	getRestaurantSQL = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`

	listActiveRestaurantsSQL = `SELECT ` + restaurantColumns + `
		FROM restaurants WHERE active = TRUE ORDER BY created_at DESC`

	listRestaurantsByOwnerSQL = `SELECT ` + restaurantColumns + `
		FROM restaurants WHERE owner_id = $1 ORDER BY created_at DESC`

	insertRestaurantSQL = `INSERT INTO restaurants (owner_id, name, description, address, phone, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	updateRestaurantSQL = `UPDATE restaurants
		SET name = $2, description = $3, address = $4, phone = $5, active = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
)

var _ catalog.RestaurantRepository = (*RestaurantRepository)(nil)

// RestaurantRepository implements catalog.RestaurantRepository backed by
// PostgreSQL.
type RestaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository returns a RestaurantRepository that uses the given
// pool.
func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

// GetByID returns a single restaurant by its identifier.
func (r *RestaurantRepository) GetByID(ctx context.Context, id int64) (*catalog.Restaurant, error) {
	rows, err := r.pool.Query(ctx, getRestaurantSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting restaurant %d: %w", id, err)
	}

	rest, err := pgx.CollectExactlyOneRow(rows, scanRestaurant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("getting restaurant %d: %w", id, err)
	}
	return &rest, nil
}

// ListActive returns all active restaurants, newest first.
func (r *RestaurantRepository) ListActive(ctx context.Context) ([]catalog.Restaurant, error) {
	rows, err := r.pool.Query(ctx, listActiveRestaurantsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing active restaurants: %w", err)
	}
	return pgx.CollectRows(rows, scanRestaurant)
}

// ListByOwner returns all restaurants of one owner, including inactive ones.
func (r *RestaurantRepository) ListByOwner(ctx context.Context, ownerID string) ([]catalog.Restaurant, error) {
	rows, err := r.pool.Query(ctx, listRestaurantsByOwnerSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing restaurants of owner %q: %w", ownerID, err)
	}
	return pgx.CollectRows(rows, scanRestaurant)
}

// Create persists a new restaurant and fills in its generated fields.
func (r *RestaurantRepository) Create(ctx context.Context, rest *catalog.Restaurant) error {
	err := r.pool.QueryRow(ctx, insertRestaurantSQL,
		rest.OwnerID, rest.Name, rest.Description, rest.Address, rest.Phone, rest.Active,
	).Scan(&rest.ID, &rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating restaurant %q: %w", rest.Name, err)
	}
	return nil
}

// Update persists the mutable fields of a restaurant.
func (r *RestaurantRepository) Update(ctx context.Context, rest *catalog.Restaurant) error {
	err := r.pool.QueryRow(ctx, updateRestaurantSQL,
		rest.ID, rest.Name, rest.Description, rest.Address, rest.Phone, rest.Active,
	).Scan(&rest.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrRestaurantNotFound
		}
		return fmt.Errorf("updating restaurant %d: %w", rest.ID, err)
	}
	return nil
}

func scanRestaurant(row pgx.CollectableRow) (catalog.Restaurant, error) {
	var rest catalog.Restaurant
	err := row.Scan(
		&rest.ID, &rest.OwnerID, &rest.Name, &rest.Description,
		&rest.Address, &rest.Phone, &rest.Active, &rest.CreatedAt, &rest.UpdatedAt,
	)
	return rest, err
}
