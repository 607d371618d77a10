package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/plateup/ordering-api/internal/domain/catalog"
	"github.com/plateup/ordering-api/internal/domain/identity"
)

// CreateRequest holds the normalized input for placing an order.
type CreateRequest struct {
	RestaurantID int64
	Lines        []LineRequest
	Notes        string
}

// Service encapsulates order placement, visibility, and the status state
// machine.
type Service struct {
	restaurants catalog.RestaurantRepository
	orders      Repository
}

// NewService creates an order Service with the required dependencies.
func NewService(restaurants catalog.RestaurantRepository, orders Repository) *Service {
	return &Service{
		restaurants: restaurants,
		orders:      orders,
	}
}

// Create places an order for the calling principal. The restaurant must
// exist and every line must reference one of its menu items with a quantity
// of at least one; persistence is all-or-nothing.
func (s *Service) Create(ctx context.Context, p identity.Principal, req CreateRequest) (*Order, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyLines
	}
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return nil, &InvalidQuantityError{MenuItemID: line.MenuItemID}
		}
	}

	restaurant, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	o, err := s.orders.Create(ctx, Draft{
		CustomerID:   p.ID,
		RestaurantID: restaurant.ID,
		Notes:        req.Notes,
		Lines:        req.Lines,
	})
	if err != nil {
		var nfErr *MenuItemNotFoundError
		if errors.As(err, &nfErr) {
			return nil, err
		}
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// Get returns one order. Orders outside the principal's scope report
// ErrOrderNotFound, matching reads of absent orders.
func (s *Service) Get(ctx context.Context, p identity.Principal, id int64) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(p, o) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// List returns the orders visible to the principal.
func (s *Service) List(ctx context.Context, p identity.Principal) ([]Order, error) {
	switch p.Role {
	case identity.RoleAdmin:
		return s.orders.ListAll(ctx)
	case identity.RoleRestaurantOwner:
		return s.orders.ListByRestaurantOwner(ctx, p.ID)
	case identity.RoleCustomer:
		return s.orders.ListByCustomer(ctx, p.ID)
	}
	return nil, errors.Wrapf(identity.ErrUnknownRole, "role %d", p.Role)
}

// Confirm moves a pending order to CONFIRMED. Allowed for the owning
// restaurant owner and admins.
func (s *Service) Confirm(ctx context.Context, p identity.Principal, id int64) (*Order, error) {
	return s.transition(ctx, p, id, StatusConfirmed)
}

// Complete moves a confirmed order to COMPLETED. Allowed for the owning
// restaurant owner and admins.
func (s *Service) Complete(ctx context.Context, p identity.Principal, id int64) (*Order, error) {
	return s.transition(ctx, p, id, StatusCompleted)
}

// Cancel moves a pending or confirmed order to CANCELLED. Allowed for the
// order's customer, the owning restaurant owner, and admins.
func (s *Service) Cancel(ctx context.Context, p identity.Principal, id int64) (*Order, error) {
	return s.transition(ctx, p, id, StatusCancelled)
}

// transition loads the order, validates visibility, authorization, and the
// state machine edge, then applies the status with a compare-and-set so
// concurrent transitions cannot be lost. Only status and the update
// timestamp change.
func (s *Service) transition(ctx context.Context, p identity.Principal, id int64, target Status) (*Order, error) {
	o, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(p, o, target) {
		return nil, ErrForbidden
	}
	if !o.Status.CanTransition(target) {
		return nil, &InvalidTransitionError{From: o.Status, To: target}
	}

	updated, err := s.orders.UpdateStatus(ctx, o.ID, o.Status, target)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			// Lost the race against another transition; the expected prior
			// status no longer holds.
			return nil, &InvalidTransitionError{From: o.Status, To: target}
		}
		return nil, errors.Wrap(err, "update status")
	}
	return updated, nil
}
