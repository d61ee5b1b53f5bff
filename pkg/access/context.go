package access

import (
	"context"

	"github.com/casekit/casekit/pkg/grants"
)

// roleCtxKey is the context key for storing the caller's role.
type roleCtxKey struct{}

// WithRole stores the caller's role in the context.
func WithRole(ctx context.Context, role grants.Role) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// RoleFromContext retrieves the caller's role from the context.
func RoleFromContext(ctx context.Context) (grants.Role, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(grants.Role)
	return role, ok
}
