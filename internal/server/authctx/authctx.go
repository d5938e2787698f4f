package authctx

import (
	"context"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser is the authenticated principal. TenantID is the lodge the
// request is scoped to (a manager's own id, or the employer's id for staff).
type CurrentUser struct {
	ID       int64
	TenantID int64
	Email    string
	Role     domain.UserRole
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(userContextKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
