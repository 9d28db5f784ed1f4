package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyRole   ctxKey = "role"
	CtxKeySID    ctxKey = "sid"
)

// UserIDFromCtx returns the authenticated user ID, or empty when the request
// did not pass the authn middleware.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// RoleFromCtx returns the authenticated account role.
func RoleFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}

// SIDFromCtx returns the session ID carried by the access token.
func SIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeySID).(string); ok {
		return v
	}
	return ""
}
