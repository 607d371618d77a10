package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/plateup/ordering-api/internal/domain/catalog"
)

// ListRestaurants returns the restaurants visible to the caller.
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.catalogService.ListRestaurants(r.Context(), principal(r))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, rest := range restaurants {
				encodeRestaurant(e, rest)
			}
		})
	})
}

// GetRestaurant returns one restaurant if it is visible to the caller.
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	rest, err := h.catalogService.GetRestaurant(r.Context(), principal(r), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) { encodeRestaurant(e, *rest) })
}

type restaurantPayload struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Active      bool
	OwnerID     string
}

func decodeRestaurant(r *http.Request) (*restaurantPayload, error) {
	p := restaurantPayload{Active: true}
	d := jx.Decode(r.Body, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			p.Name, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "address":
			p.Address, err = d.Str()
		case "phone":
			p.Phone, err = d.Str()
		case "active":
			p.Active, err = d.Bool()
		case "ownerId":
			p.OwnerID, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateRestaurant creates a restaurant owned by the caller, or by the
// payload's ownerId when the caller is an admin.
func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeRestaurant(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed restaurant payload")
		return
	}

	rest, err := h.catalogService.CreateRestaurant(r.Context(), principal(r), catalog.CreateRestaurantRequest{
		Name:        payload.Name,
		Description: payload.Description,
		Address:     payload.Address,
		Phone:       payload.Phone,
		OwnerID:     payload.OwnerID,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, func(e *jx.Encoder) { encodeRestaurant(e, *rest) })
}

// UpdateRestaurant updates a restaurant's profile fields and active flag.
func (h *Handler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	payload, err := decodeRestaurant(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed restaurant payload")
		return
	}

	rest, err := h.catalogService.UpdateRestaurant(r.Context(), principal(r), id, catalog.UpdateRestaurantRequest{
		Name:        payload.Name,
		Description: payload.Description,
		Address:     payload.Address,
		Phone:       payload.Phone,
		Active:      payload.Active,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) { encodeRestaurant(e, *rest) })
}

// ListMenuItems returns menu items visible to the caller, optionally scoped
// by the restaurant_id query parameter.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	var restaurantID *int64
	if raw := r.URL.Query().Get("restaurant_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid restaurant_id")
			return
		}
		restaurantID = &id
	}

	items, err := h.catalogService.ListMenuItems(r.Context(), principal(r), restaurantID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, item := range items {
				encodeMenuItem(e, item)
			}
		})
	})
}

type menuItemPayload struct {
	RestaurantID int64
	Name         string
	Description  string
	Price        decimal.Decimal
	Available    bool
}

func decodeMenuItem(r *http.Request) (*menuItemPayload, error) {
	p := menuItemPayload{Available: true}
	d := jx.Decode(r.Body, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "restaurantId":
			p.RestaurantID, err = d.Int64()
		case "name":
			p.Name, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "price":
			var raw string
			raw, err = d.Str()
			if err != nil {
				return err
			}
			p.Price, err = decimal.NewFromString(raw)
		case "available":
			p.Available, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateMenuItem adds a menu item under a restaurant the caller manages.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeMenuItem(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed menu item payload")
		return
	}

	item, err := h.catalogService.CreateMenuItem(r.Context(), principal(r), catalog.MenuItemRequest{
		RestaurantID: payload.RestaurantID,
		Name:         payload.Name,
		Description:  payload.Description,
		Price:        payload.Price,
		Available:    payload.Available,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, func(e *jx.Encoder) { encodeMenuItem(e, *item) })
}

// UpdateMenuItem updates a menu item under a restaurant the caller manages.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	payload, err := decodeMenuItem(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed menu item payload")
		return
	}

	item, err := h.catalogService.UpdateMenuItem(r.Context(), principal(r), id, catalog.MenuItemRequest{
		RestaurantID: payload.RestaurantID,
		Name:         payload.Name,
		Description:  payload.Description,
		Price:        payload.Price,
		Available:    payload.Available,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) { encodeMenuItem(e, *item) })
}
