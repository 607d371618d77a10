package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// Me returns the caller's own profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), principal(r).ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) { encodeProfile(e, *p) })
}
