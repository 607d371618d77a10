// Package catalog holds the restaurant and menu item entities and the
// role-scoped visibility rules over them.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for catalog lookups and authorization.
var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrForbidden          = errors.New("forbidden")
	ErrMissingRestaurant  = errors.New("restaurant id is required")
)

// Restaurant is a venue owned by a single restaurant-owner principal.
type Restaurant struct {
	ID          int64
	OwnerID     string
	Name        string
	Description string
	Address     string
	Phone       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MenuItem is a dish offered by one restaurant. Its price is a point-in-time
// value: order lines copy it at creation and never reference back.
type MenuItem struct {
	ID           int64
	RestaurantID int64
	Name         string
	Description  string
	Price        decimal.Decimal
	Available    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RestaurantRepository defines persistence operations for restaurants.
type RestaurantRepository interface {
	GetByID(ctx context.Context, id int64) (*Restaurant, error)
	ListActive(ctx context.Context) ([]Restaurant, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Restaurant, error)
	Create(ctx context.Context, r *Restaurant) error
	Update(ctx context.Context, r *Restaurant) error
}

// MenuItemRepository defines persistence operations for menu items.
//
// GetByID is scoped: an item id that exists under a different restaurant
// must report ErrMenuItemNotFound.
type MenuItemRepository interface {
	GetByID(ctx context.Context, id, restaurantID int64) (*MenuItem, error)
	ListAvailable(ctx context.Context) ([]MenuItem, error)
	ListAvailableByRestaurant(ctx context.Context, restaurantID int64) ([]MenuItem, error)
	ListByOwner(ctx context.Context, ownerID string) ([]MenuItem, error)
	Create(ctx context.Context, item *MenuItem) error
	Update(ctx context.Context, item *MenuItem) error
}
