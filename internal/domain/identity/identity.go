// Package identity resolves authenticated principals to platform roles.
package identity

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Role is the closed set of platform roles. Every principal holds exactly
// one role at a time.
type Role uint8

const (
	RoleCustomer Role = iota
	RoleRestaurantOwner
	RoleAdmin
)

// Stored role values, matching the profiles.role column.
const (
	roleCustomerValue        = "CUSTOMER"
	roleRestaurantOwnerValue = "RESTAURANT_OWNER"
	roleAdminValue           = "ADMIN"
)

// ErrUnknownRole is returned when a stored role value does not match any
// known role.
var ErrUnknownRole = errors.New("unknown role")

// String returns the stored representation of the role.
func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return roleCustomerValue
	case RoleRestaurantOwner:
		return roleRestaurantOwnerValue
	case RoleAdmin:
		return roleAdminValue
	}
	return "UNKNOWN"
}

// ParseRole converts a stored role value into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleCustomerValue:
		return RoleCustomer, nil
	case roleRestaurantOwnerValue:
		return RoleRestaurantOwner, nil
	case roleAdminValue:
		return RoleAdmin, nil
	}
	return RoleCustomer, errors.Wrapf(ErrUnknownRole, "%q", s)
}

// Principal is an authenticated actor with its resolved role.
type Principal struct {
	ID   string
	Role Role
}

// Profile is the stored per-principal record backing role resolution.
type Profile struct {
	PrincipalID string
	DisplayName string
	Phone       string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ErrProfileNotFound is returned when no profile exists for a principal and
// auto-provisioning is disabled.
var ErrProfileNotFound = errors.New("profile not found")

// Repository defines persistence operations for profiles.
//
// GetOrCreate must be idempotent and race-safe: concurrent first use by the
// same principal must resolve to a single profile row (unique constraint on
// the principal id, insert-if-absent then read).
type Repository interface {
	Get(ctx context.Context, principalID string) (*Profile, error)
	GetOrCreate(ctx context.Context, principalID string) (*Profile, error)
}
