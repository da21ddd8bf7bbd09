// internal/auth/principal.go

package auth

import "context"

// Principal is the authenticated caller, resolved once at the request
// boundary. Handlers never re-derive identity from raw claims.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type contextKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom extracts the principal set by the Authenticate middleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
