package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/edumentor/learnconnect/pkg/jwtx"
	"github.com/edumentor/learnconnect/pkg/slogx"
)

// AuthnMiddleware verifies the bearer access token and injects the subject,
// role and session ID into the request context.
func AuthnMiddleware(v *jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c *jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeySID, c.SID)
	return ctx
}

// RFC 6750 bearer challenge, body in the uniform error envelope so SDK error
// normalization sees the same shape everywhere.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
