package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/plateup/ordering-api/internal/domain/catalog"
	"github.com/plateup/ordering-api/internal/domain/identity"
	"github.com/plateup/ordering-api/internal/domain/order"
)

// respondDomainError maps domain errors to HTTP error responses. Unknown
// errors are logged and reported as 500 without leaking internals.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrRestaurantNotFound),
		errors.Is(err, catalog.ErrMenuItemNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, identity.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, err.Error())
		return

	case errors.Is(err, catalog.ErrForbidden),
		errors.Is(err, order.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
		return

	case errors.Is(err, order.ErrEmptyLines),
		errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrMissingRestaurant):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var iqErr *order.InvalidQuantityError
	if errors.As(err, &iqErr) {
		respondError(w, http.StatusUnprocessableEntity, iqErr.Error())
		return
	}

	var minfErr *order.MenuItemNotFoundError
	if errors.As(err, &minfErr) {
		respondError(w, http.StatusUnprocessableEntity, minfErr.Error())
		return
	}

	var itErr *order.InvalidTransitionError
	if errors.As(err, &itErr) {
		respondError(w, http.StatusConflict, itErr.Error())
		return
	}

	zctx.From(r.Context()).Error("Unhandled domain error", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal error")
}
