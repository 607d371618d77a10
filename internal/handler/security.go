package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/plateup/ordering-api/internal/domain/auth"
	"github.com/plateup/ordering-api/internal/domain/identity"
)

// APIKeyHeader carries the caller's API key.
const APIKeyHeader = "X-Api-Key"

type principalKey struct{}

// Security authenticates requests via HMAC-SHA256 hashed API keys and
// resolves the key's principal into the request context. Requests without a
// valid key are rejected with 401 before reaching any route.
type Security struct {
	apikeys  auth.Repository
	resolver *identity.Resolver
	pepper   []byte
}

// NewSecurity creates a Security middleware with the given API key
// repository, identity resolver, and HMAC pepper.
func NewSecurity(apikeys auth.Repository, resolver *identity.Resolver, pepper []byte) *Security {
	return &Security{
		apikeys:  apikeys,
		resolver: resolver,
		pepper:   pepper,
	}
}

// Authenticate wraps next, requiring a valid API key on every request.
func (s *Security) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if key == "" {
			respondError(w, http.StatusUnauthorized, "missing api key")
			return
		}

		mac := hmac.New(sha256.New, s.pepper)
		mac.Write([]byte(key))
		hash := mac.Sum(nil)

		info, err := s.apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		// Constant-time comparison guards against timing side-channels even
		// though the lookup already succeeded.
		storedBytes, err := hex.DecodeString(info.KeyHash)
		if err != nil || subtle.ConstantTimeCompare(hash, storedBytes) != 1 {
			respondError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		p, err := s.resolver.Resolve(r.Context(), info.PrincipalID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unknown principal")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
