package identity

import (
	"context"
	"errors"

	"vendorhub/internal/platform/middleware"
	"vendorhub/pkg/platform/sentinel"
	"vendorhub/pkg/requestcontext"

	dErrors "vendorhub/pkg/domain-errors"
)

// UserStore is the subset of user persistence the resolver needs.
type UserStore interface {
	GetByUID(ctx context.Context, uid string) (*User, error)
}

// Resolver authorizes verified tokens against the user store. It is stateless;
// the lookup runs on every request so a role revocation takes effect
// immediately.
type Resolver struct {
	users UserStore
}

func NewResolver(users UserStore) *Resolver {
	return &Resolver{users: users}
}

// ResolveAdmin loads the caller's user record and enforces the admin role.
// A missing record and a non-admin role are both Forbidden; the caller
// learns nothing about which one it was.
func (r *Resolver) ResolveAdmin(ctx context.Context, claims *middleware.TokenClaims) (requestcontext.AdminIdentity, error) {
	user, err := r.users.GetByUID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return requestcontext.AdminIdentity{}, dErrors.New(dErrors.CodeForbidden, "admin access required")
		}
		return requestcontext.AdminIdentity{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user record")
	}

	if !user.IsAdmin() {
		return requestcontext.AdminIdentity{}, dErrors.New(dErrors.CodeForbidden, "admin access required")
	}

	// Email from the token wins when the record has none; the record is
	// otherwise authoritative.
	email := user.Email
	if email == "" {
		email = claims.Email
	}

	return requestcontext.AdminIdentity{
		UID:         user.UID,
		Email:       email,
		Role:        user.Role,
		DisplayName: user.DisplayName,
	}, nil
}
