package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/plateup/ordering-api/internal/domain/catalog"
)

const (
	menuItemColumns = `id, restaurant_id, name, description, price, available, created_at, updated_at`

	getMenuItemSQL = `SELECT ` + menuItemColumns + `
		FROM menu_items WHERE id = $1 AND restaurant_id = $2`

	listAvailableMenuItemsSQL = `SELECT ` + menuItemColumns + `
		FROM menu_items WHERE available = TRUE ORDER BY created_at DESC`

	listAvailableMenuItemsByRestaurantSQL = `SELECT ` + menuItemColumns + `
		FROM menu_items WHERE available = TRUE AND restaurant_id = $1 ORDER BY created_at DESC`

	listMenuItemsByOwnerSQL = `SELECT m.id, m.restaurant_id, m.name, m.description, m.price, m.available, m.created_at, m.updated_at
		FROM menu_items m
		JOIN restaurants r ON r.id = m.restaurant_id
		WHERE r.owner_id = $1
		ORDER BY m.created_at DESC`

	insertMenuItemSQL = `INSERT INTO menu_items (restaurant_id, name, description, price, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	updateMenuItemSQL = `UPDATE menu_items
		SET name = $2, description = $3, price = $4, available = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
)

var _ catalog.MenuItemRepository = (*MenuItemRepository)(nil)

// MenuItemRepository implements catalog.MenuItemRepository backed by
// PostgreSQL.
type MenuItemRepository struct {
	pool *pgxpool.Pool
}

// NewMenuItemRepository returns a MenuItemRepository that uses the given
// pool.
func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

// GetByID returns a menu item scoped to its restaurant. An id that exists
// under a different restaurant reports catalog.ErrMenuItemNotFound.
func (r *MenuItemRepository) GetByID(ctx context.Context, id, restaurantID int64) (*catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemSQL, id, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}
	return &item, nil
}

// ListAvailable returns every available menu item, newest first.
func (r *MenuItemRepository) ListAvailable(ctx context.Context) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listAvailableMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing available menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// ListAvailableByRestaurant returns the available menu items of one
// restaurant.
func (r *MenuItemRepository) ListAvailableByRestaurant(ctx context.Context, restaurantID int64) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listAvailableMenuItemsByRestaurantSQL, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("listing menu items of restaurant %d: %w", restaurantID, err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// ListByOwner returns all menu items of an owner's restaurants, including
// unavailable ones.
func (r *MenuItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listMenuItemsByOwnerSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing menu items of owner %q: %w", ownerID, err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// Create persists a new menu item and fills in its generated fields.
func (r *MenuItemRepository) Create(ctx context.Context, item *catalog.MenuItem) error {
	err := r.pool.QueryRow(ctx, insertMenuItemSQL,
		item.RestaurantID, item.Name, item.Description, item.Price, item.Available,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating menu item %q: %w", item.Name, err)
	}
	return nil
}

// Update persists the mutable fields of a menu item.
func (r *MenuItemRepository) Update(ctx context.Context, item *catalog.MenuItem) error {
	err := r.pool.QueryRow(ctx, updateMenuItemSQL,
		item.ID, item.Name, item.Description, item.Price, item.Available,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrMenuItemNotFound
		}
		return fmt.Errorf("updating menu item %d: %w", item.ID, err)
	}
	return nil
}

func scanMenuItem(row pgx.CollectableRow) (catalog.MenuItem, error) {
	var (
		item  catalog.MenuItem
		price decimal.Decimal
	)
	err := row.Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Description,
		&price, &item.Available, &item.CreatedAt, &item.UpdatedAt,
	)
	item.Price = price
	return item, err
}
