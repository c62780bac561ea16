package core

import "context"

// Principal is the access guard's verdict about an authorized caller.
// System principals come in through the shared-secret header (bulk backfill
// jobs) and carry no identity or tenant hint.
type Principal struct {
	System  bool
	UserID  string
	OrgHint string
}

type principalKey struct{}

// WithPrincipal attaches the authorized principal to the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal placed in ctx by the access guard.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
