// Package handler exposes the HTTP surface of the ordering API. It decodes
// requests, delegates to the domain services, and maps domain results and
// errors back to JSON responses.
package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/plateup/ordering-api/internal/domain/catalog"
	"github.com/plateup/ordering-api/internal/domain/identity"
	"github.com/plateup/ordering-api/internal/domain/order"
)

// Handler serves the authenticated API routes, delegating business logic to
// the catalog and order services.
type Handler struct {
	catalogService *catalog.Service
	orderService   *order.Service
	profiles       identity.Repository

	ordersPlaced metric.Int64Counter
}

// NewHandler constructs a Handler with the required domain dependencies and
// registers its metric instruments on the given provider.
func NewHandler(
	catalogService *catalog.Service,
	orderService *order.Service,
	profiles identity.Repository,
	meterProvider metric.MeterProvider,
) (*Handler, error) {
	meter := meterProvider.Meter("github.com/plateup/ordering-api/internal/handler")
	ordersPlaced, err := meter.Int64Counter("orders.placed",
		metric.WithDescription("Orders successfully placed."),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders.placed counter")
	}

	return &Handler{
		catalogService: catalogService,
		orderService:   orderService,
		profiles:       profiles,
		ordersPlaced:   ordersPlaced,
	}, nil
}

// Routes registers every API route on the given mux. All routes expect an
// authenticated principal in the request context; see Security.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/restaurants", h.ListRestaurants)
	mux.HandleFunc("POST /api/restaurants", h.CreateRestaurant)
	mux.HandleFunc("GET /api/restaurants/{id}", h.GetRestaurant)
	mux.HandleFunc("PUT /api/restaurants/{id}", h.UpdateRestaurant)

	mux.HandleFunc("GET /api/menu-items", h.ListMenuItems)
	mux.HandleFunc("POST /api/menu-items", h.CreateMenuItem)
	mux.HandleFunc("PUT /api/menu-items/{id}", h.UpdateMenuItem)

	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("POST /api/orders", h.PlaceOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
	mux.HandleFunc("POST /api/orders/{id}/confirm", h.transitionHandler((*order.Service).Confirm))
	mux.HandleFunc("POST /api/orders/{id}/complete", h.transitionHandler((*order.Service).Complete))
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.transitionHandler((*order.Service).Cancel))

	mux.HandleFunc("GET /api/me", h.Me)
}

// principal extracts the authenticated principal placed into the request
// context by the security middleware.
func principal(r *http.Request) identity.Principal {
	p, _ := r.Context().Value(principalKey{}).(identity.Principal)
	return p
}
