package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edumentor/learnconnect/pkg/httpx"
	"github.com/edumentor/learnconnect/pkg/jwtx"
)

func TestChainOrdering(t *testing.T) {
	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), tag("outer"), tag("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	signer, err := jwtx.NewEphemeralSigner("k1")
	require.NoError(t, err)

	verifier := jwtx.NewVerifier("", 0)
	verifier.AddKey(signer.KID(), signer.PublicKey())

	var gotUserID, gotRole string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httpx.UserIDFromCtx(r.Context())
		gotRole = httpx.RoleFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := httpx.AuthnMiddleware(verifier)(inner)

	t.Run("accepts valid bearer token", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("user-1", "s1", "tutor", "Ada", "", time.Minute, time.Now().UTC())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", gotUserID)
		require.Equal(t, "tutor", gotRole)
	})

	t.Run("rejects missing token with envelope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

		var body httpx.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "unauthorized", body.Code)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	signer, err := jwtx.NewEphemeralSigner("k1")
	require.NoError(t, err)
	verifier := jwtx.NewVerifier("", 0)
	verifier.AddKey(signer.KID(), signer.PublicKey())

	handler := httpx.Chain(okHandler(),
		httpx.AuthnMiddleware(verifier),
		httpx.RequireRole("tutor"),
	)

	request := func(role string) *httptest.ResponseRecorder {
		claims := jwtx.NewAccessClaims("user-1", "s1", role, "", "", time.Minute, time.Now().UTC())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, request("tutor").Code)

	rec := request("learner")
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "forbidden", body.Code)
}

func TestWriteValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteValidationError(rec, "Validation failed", map[string]string{"email": "must be a valid email"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "validation_failed", body.Code)
	require.Equal(t, "must be a valid email", body.FieldErrors["email"])
}
