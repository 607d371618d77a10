package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/plateup/ordering-api/internal/domain/catalog"
	"github.com/plateup/ordering-api/internal/domain/identity"
	"github.com/plateup/ordering-api/internal/domain/order"
)

// respond writes a JSON body built by fn with the given status code.
func respond(w http.ResponseWriter, r *http.Request, status int, fn func(e *jx.Encoder)) {
	var e jx.Encoder
	fn(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Debug("Write response", zap.Error(err))
	}
}

// respondError writes the standard error payload.
func respondError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(status) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(e.Bytes()) //nolint:errcheck // nothing left to do on write failure
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339))
}

func encodeRestaurant(e *jx.Encoder, r catalog.Restaurant) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(r.ID) })
		e.Field("ownerId", func(e *jx.Encoder) { e.Str(r.OwnerID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(r.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(r.Description) })
		e.Field("address", func(e *jx.Encoder) { e.Str(r.Address) })
		e.Field("phone", func(e *jx.Encoder) { e.Str(r.Phone) })
		e.Field("active", func(e *jx.Encoder) { e.Bool(r.Active) })
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, r.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encodeTime(e, r.UpdatedAt) })
	})
}

func encodeMenuItem(e *jx.Encoder, m catalog.MenuItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(m.ID) })
		e.Field("restaurantId", func(e *jx.Encoder) { e.Int64(m.RestaurantID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(m.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(m.Description) })
		e.Field("price", func(e *jx.Encoder) { e.Str(m.Price.StringFixed(2)) })
		e.Field("available", func(e *jx.Encoder) { e.Bool(m.Available) })
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, m.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encodeTime(e, m.UpdatedAt) })
	})
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(o.ID) })
		e.Field("customer", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(o.Customer.ID) })
				e.Field("displayName", func(e *jx.Encoder) { e.Str(o.Customer.DisplayName) })
			})
		})
		e.Field("restaurant", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Int64(o.Restaurant.ID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(o.Restaurant.Name) })
			})
		})
		e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
		e.Field("total", func(e *jx.Encoder) { e.Str(o.Total.StringFixed(2)) })
		e.Field("notes", func(e *jx.Encoder) { e.Str(o.Notes) })
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range o.Lines {
					encodeOrderLine(e, l)
				}
			})
		})
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, o.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encodeTime(e, o.UpdatedAt) })
	})
}

func encodeOrderLine(e *jx.Encoder, l order.Line) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(l.ID) })
		e.Field("menuItemId", func(e *jx.Encoder) { e.Int64(l.MenuItemID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(l.Name) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
		e.Field("price", func(e *jx.Encoder) { e.Str(l.Price.StringFixed(2)) })
	})
}

func encodeProfile(e *jx.Encoder, p identity.Profile) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("principalId", func(e *jx.Encoder) { e.Str(p.PrincipalID) })
		e.Field("displayName", func(e *jx.Encoder) { e.Str(p.DisplayName) })
		e.Field("phone", func(e *jx.Encoder) { e.Str(p.Phone) })
		e.Field("role", func(e *jx.Encoder) { e.Str(p.Role.String()) })
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, p.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encodeTime(e, p.UpdatedAt) })
	})
}
