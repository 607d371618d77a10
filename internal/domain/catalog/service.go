package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/plateup/ordering-api/internal/domain/identity"
)

// Validation errors for catalog mutations.
var (
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidPrice = errors.New("price must not be negative")
)

// Service applies role-scoped visibility and mutation authorization over the
// catalog.
type Service struct {
	restaurants RestaurantRepository
	items       MenuItemRepository
}

// NewService creates a catalog Service with the required repositories.
func NewService(restaurants RestaurantRepository, items MenuItemRepository) *Service {
	return &Service{
		restaurants: restaurants,
		items:       items,
	}
}

// ListRestaurants returns the restaurants visible to the principal: owners
// see their own (including inactive), everyone else only active ones.
func (s *Service) ListRestaurants(ctx context.Context, p identity.Principal) ([]Restaurant, error) {
	switch p.Role {
	case identity.RoleRestaurantOwner:
		return s.restaurants.ListByOwner(ctx, p.ID)
	case identity.RoleAdmin, identity.RoleCustomer:
		return s.restaurants.ListActive(ctx)
	}
	return nil, errors.Wrapf(identity.ErrUnknownRole, "role %d", p.Role)
}

// GetRestaurant returns one restaurant, applying the same visibility scope
// as ListRestaurants. Out-of-scope restaurants report ErrRestaurantNotFound.
func (s *Service) GetRestaurant(ctx context.Context, p identity.Principal, id int64) (*Restaurant, error) {
	r, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !restaurantVisible(p, r) {
		return nil, ErrRestaurantNotFound
	}
	return r, nil
}

func restaurantVisible(p identity.Principal, r *Restaurant) bool {
	if r.Active {
		return true
	}
	return p.Role == identity.RoleRestaurantOwner && r.OwnerID == p.ID
}

// CreateRestaurantRequest holds the input for creating a restaurant.
type CreateRestaurantRequest struct {
	Name        string
	Description string
	Address     string
	Phone       string

	// OwnerID overrides the owner; only admins may set it.
	OwnerID string
}

// CreateRestaurant creates a restaurant owned by the calling principal.
// Only restaurant owners and admins may create restaurants; admins may
// create on behalf of another owner.
func (s *Service) CreateRestaurant(ctx context.Context, p identity.Principal, req CreateRestaurantRequest) (*Restaurant, error) {
	if req.Name == "" {
		return nil, ErrEmptyName
	}

	owner := p.ID
	switch p.Role {
	case identity.RoleAdmin:
		if req.OwnerID != "" {
			owner = req.OwnerID
		}
	case identity.RoleRestaurantOwner:
	case identity.RoleCustomer:
		return nil, ErrForbidden
	}

	r := &Restaurant{
		OwnerID:     owner,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Active:      true,
	}
	if err := s.restaurants.Create(ctx, r); err != nil {
		return nil, errors.Wrap(err, "create restaurant")
	}
	return r, nil
}

// UpdateRestaurantRequest holds the mutable restaurant fields.
type UpdateRestaurantRequest struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Active      bool
}

// UpdateRestaurant updates a restaurant. Only the owning principal or an
// admin may mutate it.
func (s *Service) UpdateRestaurant(ctx context.Context, p identity.Principal, id int64, req UpdateRestaurantRequest) (*Restaurant, error) {
	r, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(p, r) {
		return nil, ErrForbidden
	}
	if req.Name == "" {
		return nil, ErrEmptyName
	}

	r.Name = req.Name
	r.Description = req.Description
	r.Address = req.Address
	r.Phone = req.Phone
	r.Active = req.Active
	if err := s.restaurants.Update(ctx, r); err != nil {
		return nil, errors.Wrap(err, "update restaurant")
	}
	return r, nil
}

// canManage reports whether the principal may mutate the restaurant or its
// menu.
func canManage(p identity.Principal, r *Restaurant) bool {
	switch p.Role {
	case identity.RoleAdmin:
		return true
	case identity.RoleRestaurantOwner:
		return r.OwnerID == p.ID
	case identity.RoleCustomer:
		return false
	}
	return false
}

// ListMenuItems returns the menu items visible to the principal. Owners see
// the items of their own restaurants; everyone else sees available items,
// optionally scoped to a single restaurant.
func (s *Service) ListMenuItems(ctx context.Context, p identity.Principal, restaurantID *int64) ([]MenuItem, error) {
	switch p.Role {
	case identity.RoleRestaurantOwner:
		return s.items.ListByOwner(ctx, p.ID)
	case identity.RoleAdmin, identity.RoleCustomer:
		if restaurantID != nil {
			return s.items.ListAvailableByRestaurant(ctx, *restaurantID)
		}
		return s.items.ListAvailable(ctx)
	}
	return nil, errors.Wrapf(identity.ErrUnknownRole, "role %d", p.Role)
}

// MenuItemRequest holds the input for creating or updating a menu item.
type MenuItemRequest struct {
	RestaurantID int64
	Name         string
	Description  string
	Price        decimal.Decimal
	Available    bool
}

func (req MenuItemRequest) validate() error {
	if req.RestaurantID == 0 {
		return ErrMissingRestaurant
	}
	if req.Name == "" {
		return ErrEmptyName
	}
	if req.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// CreateMenuItem adds a menu item under a restaurant. Only the restaurant's
// owner or an admin may do so.
func (s *Service) CreateMenuItem(ctx context.Context, p identity.Principal, req MenuItemRequest) (*MenuItem, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	r, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !canManage(p, r) {
		return nil, ErrForbidden
	}

	item := &MenuItem{
		RestaurantID: r.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Available:    req.Available,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, errors.Wrap(err, "create menu item")
	}
	return item, nil
}

// UpdateMenuItem updates a menu item under the same authorization rules as
// CreateMenuItem. The item lookup is scoped to the restaurant named in the
// request.
func (s *Service) UpdateMenuItem(ctx context.Context, p identity.Principal, id int64, req MenuItemRequest) (*MenuItem, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	r, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !canManage(p, r) {
		return nil, ErrForbidden
	}

	item, err := s.items.GetByID(ctx, id, r.ID)
	if err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Available = req.Available
	if err := s.items.Update(ctx, item); err != nil {
		return nil, errors.Wrap(err, "update menu item")
	}
	return item, nil
}
