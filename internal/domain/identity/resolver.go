package identity

import (
	"context"

	"github.com/go-faster/errors"
)

// Resolver maps an authenticated principal id to a Principal with its role.
//
// By default a missing profile is auto-provisioned with the CUSTOMER role so
// that every authenticated caller resolves successfully. Bulk-import paths
// and tests that manage profiles themselves can opt out with
// WithoutAutoProvision; in that mode a missing profile is ErrProfileNotFound.
type Resolver struct {
	profiles      Repository
	autoProvision bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithoutAutoProvision disables default-profile creation for unknown
// principals.
func WithoutAutoProvision() ResolverOption {
	return func(r *Resolver) {
		r.autoProvision = false
	}
}

// NewResolver creates a Resolver backed by the given profile repository.
func NewResolver(profiles Repository, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		profiles:      profiles,
		autoProvision: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the Principal for the given principal id.
func (r *Resolver) Resolve(ctx context.Context, principalID string) (Principal, error) {
	var (
		profile *Profile
		err     error
	)
	if r.autoProvision {
		profile, err = r.profiles.GetOrCreate(ctx, principalID)
	} else {
		profile, err = r.profiles.Get(ctx, principalID)
	}
	if err != nil {
		return Principal{}, errors.Wrap(err, "resolve profile")
	}

	return Principal{
		ID:   profile.PrincipalID,
		Role: profile.Role,
	}, nil
}
