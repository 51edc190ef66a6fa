package token

import "context"

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var claimsKey = contextKey{}

// NewContext stores verified claims in the context, typically right after
// a successful Verify, so downstream operations can read the caller's
// identity without re-parsing the token.
func NewContext(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// FromContext retrieves verified claims from the context.
// Returns the claims and true if present, or nil and false otherwise.
func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}
