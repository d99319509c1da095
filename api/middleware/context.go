package middleware

import (
	"context"

	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
)

func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(int64); ok {
		return v
	}
	return 0
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.UserRole); ok {
		return v
	}
	return ""
}

// ActorFromContext returns the authenticated caller. ok is false for
// anonymous requests.
func ActorFromContext(ctx context.Context) (types.Actor, bool) {
	id := UserIDFromContext(ctx)
	if id <= 0 {
		return types.Actor{}, false
	}
	return types.Actor{UserID: id, Role: RoleFromContext(ctx)}, true
}

// WithActor injects the caller identity into the context.
func WithActor(ctx context.Context, actor types.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, actor.UserID)
	return context.WithValue(ctx, ctxRole, actor.Role)
}
