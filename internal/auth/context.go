package auth

import (
	"context"
)

type contextKey string

const callerContextKey contextKey = "draftgen_caller"

// Roles recognised by the rate limiter.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// CallerInfo is the identity asserted by the authenticating proxy in front of
// the service.
type CallerInfo struct {
	ID   string
	Role string
}

func (c *CallerInfo) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

func ContextWithCaller(ctx context.Context, info *CallerInfo) context.Context {
	return context.WithValue(ctx, callerContextKey, info)
}

func CallerFromContext(ctx context.Context) (*CallerInfo, bool) {
	info, ok := ctx.Value(callerContextKey).(*CallerInfo)
	return info, ok
}
