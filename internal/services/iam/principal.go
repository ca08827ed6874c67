package iam

import "context"

// Principal represents an authenticated identity.
//
// This struct is immutable after construction: it is built once from the
// stored user record at authentication time, stored on the request
// context, and consulted by authorization checks downstream.
type Principal struct {
	// Username is the stable external identity of the user.
	Username string

	// IsAdmin reports the stored role flag.
	IsAdmin bool
}

// Role constants used as casbin policy subjects.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role returns the policy subject for this principal.
func (p *Principal) Role() string {
	if p.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

type principalContextKey struct{}

// SetPrincipalContext stores the authenticated principal on the context for
// downstream consumers.
func SetPrincipalContext(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext retrieves the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(Principal)
	return principal, ok
}
