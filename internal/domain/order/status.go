package order

import (
	"github.com/plateup/ordering-api/internal/domain/identity"
)

// Status enumerates the order lifecycle states. Stored values match the
// status column.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// CanTransition reports whether moving from s to target is a legal edge of
// the state machine:
//
//	PENDING   -> CONFIRMED | CANCELLED
//	CONFIRMED -> COMPLETED | CANCELLED
//	COMPLETED, CANCELLED -> (terminal)
//
// Re-applying a terminal status is a violation, not a no-op.
func (s Status) CanTransition(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// Terminal reports whether no further transitions are accepted from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// transitionAllowed reports whether the principal may trigger the transition
// on the order:
//
//	confirm, complete: owning restaurant owner or admin
//	cancel:            order's customer, owning restaurant owner, or admin
func transitionAllowed(p identity.Principal, o *Order, target Status) bool {
	switch p.Role {
	case identity.RoleAdmin:
		return true
	case identity.RoleRestaurantOwner:
		return o.Restaurant.OwnerID == p.ID
	case identity.RoleCustomer:
		return target == StatusCancelled && o.Customer.ID == p.ID
	}
	return false
}

// visible reports whether the order is in the principal's read scope:
// admins see all orders, owners the orders of their restaurants, customers
// their own orders.
func visible(p identity.Principal, o *Order) bool {
	switch p.Role {
	case identity.RoleAdmin:
		return true
	case identity.RoleRestaurantOwner:
		return o.Restaurant.OwnerID == p.ID
	case identity.RoleCustomer:
		return o.Customer.ID == p.ID
	}
	return false
}
