package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/plateup/ordering-api/internal/domain/identity"
	"github.com/plateup/ordering-api/internal/domain/order"
)

// placeOrderRequest is the wire form of an order submission. Items is a list
// of single-entry objects mapping a menu item id to a quantity; duplicate ids
// across entries are kept as distinct lines.
type placeOrderRequest struct {
	RestaurantID int64
	Notes        string
	Lines        []order.LineRequest
}

func decodePlaceOrder(r *http.Request) (*placeOrderRequest, error) {
	var req placeOrderRequest
	d := jx.Decode(r.Body, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "restaurantId":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			req.RestaurantID = v
			return nil
		case "notes":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Notes = v
			return nil
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				return d.Obj(func(d *jx.Decoder, item string) error {
					id, err := strconv.ParseInt(item, 10, 64)
					if err != nil {
						return err
					}
					qty, err := d.Int()
					if err != nil {
						return err
					}
					req.Lines = append(req.Lines, order.LineRequest{
						MenuItemID: id,
						Quantity:   qty,
					})
					return nil
				})
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// PlaceOrder creates an order from the request body, snapshotting menu item
// prices atomically.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	req, err := decodePlaceOrder(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed order payload")
		return
	}

	o, err := h.orderService.Create(r.Context(), principal(r), order.CreateRequest{
		RestaurantID: req.RestaurantID,
		Lines:        req.Lines,
		Notes:        req.Notes,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.ordersPlaced.Add(r.Context(), 1, metric.WithAttributes(
		attribute.Int64("restaurant.id", o.Restaurant.ID),
	))

	respond(w, r, http.StatusCreated, func(e *jx.Encoder) { encodeOrder(e, *o) })
}

// ListOrders returns the orders visible to the caller: customers see their
// own, owners see their restaurants', admins see everything.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context(), principal(r))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, o := range orders {
				encodeOrder(e, o)
			}
		})
	})
}

// GetOrder returns one order if it is within the caller's visibility scope.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orderService.Get(r.Context(), principal(r), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) { encodeOrder(e, *o) })
}

// transitionHandler builds a status-transition route around one of the order
// service's Confirm, Complete, or Cancel methods.
func (h *Handler) transitionHandler(
	op func(*order.Service, context.Context, identity.Principal, int64) (*order.Order, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid order id")
			return
		}

		o, err := op(h.orderService, r.Context(), principal(r), id)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}

		respond(w, r, http.StatusOK, func(e *jx.Encoder) { encodeOrder(e, *o) })
	}
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
