// Package order implements the order aggregate: atomic multi-line creation
// with price snapshots, the status state machine, and role-scoped
// visibility.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for order operations.
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrForbidden     = errors.New("forbidden")
	ErrEmptyLines    = errors.New("at least one line is required")

	// ErrStatusConflict is returned by Repository.UpdateStatus when the
	// order's status no longer matches the expected prior status.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// InvalidQuantityError indicates a line with a non-positive quantity.
type InvalidQuantityError struct {
	MenuItemID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1 for menu item %d", e.MenuItemID)
}

// MenuItemNotFoundError indicates a requested menu item that does not exist
// under the order's restaurant.
type MenuItemNotFoundError struct {
	MenuItemID int64
}

func (e *MenuItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %d not found in this restaurant", e.MenuItemID)
}

// InvalidTransitionError indicates a status change outside the state machine.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// CustomerSummary identifies the customer who placed an order.
type CustomerSummary struct {
	ID          string
	DisplayName string
}

// RestaurantSummary identifies the restaurant an order was placed against.
// OwnerID is carried for transition authorization.
type RestaurantSummary struct {
	ID      int64
	OwnerID string
	Name    string
}

// Line is one line of an order: a menu item reference, a quantity, and the
// unit price captured at creation time. The price is an immutable copy;
// later menu price changes never alter it.
type Line struct {
	ID         int64
	MenuItemID int64
	Name       string
	Quantity   int
	Price      decimal.Decimal
}

// Order is a customer's purchase request against one restaurant. Total
// always equals the sum of its lines' price times quantity.
type Order struct {
	ID         int64
	Customer   CustomerSummary
	Restaurant RestaurantSummary
	Status     Status
	Total      decimal.Decimal
	Notes      string
	Lines      []Line
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LineRequest is one normalized requested line. Duplicate menu item ids
// across entries stay distinct lines; nothing is merged.
type LineRequest struct {
	MenuItemID int64
	Quantity   int
}

// Draft is a validated order ready to be persisted.
type Draft struct {
	CustomerID   string
	RestaurantID int64
	Notes        string
	Lines        []LineRequest
}

// Repository defines persistence operations for orders.
//
// Create runs entirely inside one transaction: it inserts the order shell,
// resolves every requested menu item scoped to the draft's restaurant,
// snapshots its current price into a line, accumulates the total, and
// commits. Any unresolvable line aborts the transaction; a partially
// created order must never be durable or readable. A scoped miss is
// reported as *MenuItemNotFoundError.
//
// UpdateStatus is a compare-and-set: it applies the new status only when
// the stored status still equals from, returning ErrStatusConflict
// otherwise.
type Repository interface {
	Create(ctx context.Context, d Draft) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	ListByRestaurantOwner(ctx context.Context, ownerID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to Status) (*Order, error)
}
