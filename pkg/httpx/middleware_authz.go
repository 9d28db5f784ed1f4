package httpx

import "net/http"

// RequireRole admits only callers whose account role is one of those listed.
// Runs after AuthnMiddleware.
func RequireRole(roles ...string) Middleware {
	want := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := want[RoleFromCtx(r.Context())]; !ok {
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
