package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar/chatvault-be/internal/models"
)

func newSessionStack(t *testing.T) (*TokenManager, *CookieManager, http.Handler, *Principal) {
	t.Helper()

	tokens := NewTokenManager("jwt-secret")
	cookies := NewCookieManager("cookie-secret", "localhost", false)

	var seen Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok, "principal missing from context")
		seen = p
		w.WriteHeader(http.StatusOK)
	})

	return tokens, cookies, SessionMiddleware(tokens, cookies)(inner), &seen
}

func TestSessionMiddleware_NoCookie(t *testing.T) {
	t.Parallel()

	_, _, handler, _ := newSessionStack(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token not received")
}

func TestSessionMiddleware_UnsignedCookie(t *testing.T) {
	t.Parallel()

	tokens, _, handler, _ := newSessionStack(t)

	tok, err := tokens.Generate(models.User{ID: "u1", Email: "a@b.co"})
	require.NoError(t, err)

	// Raw token without the cookie-level signature.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired or invalid")
}

func TestSessionMiddleware_ForeignToken(t *testing.T) {
	t.Parallel()

	_, cookies, handler, _ := newSessionStack(t)

	// Token signed by a different service instance; the cookie wrapper is
	// valid but the token signature is not.
	tok, err := NewTokenManager("other-secret").Generate(models.User{ID: "u1", Email: "a@b.co"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	cookies.Set(rec, tok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Value != "" {
			req.AddCookie(c)
		}
	}

	out := httptest.NewRecorder()
	handler.ServeHTTP(out, req)

	assert.Equal(t, http.StatusUnauthorized, out.Code)
}

func TestSessionMiddleware_ValidSession(t *testing.T) {
	t.Parallel()

	tokens, cookies, handler, seen := newSessionStack(t)

	tok, err := tokens.Generate(models.User{ID: "user-42", Email: "ann@example.com"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	cookies.Set(rec, tok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Value != "" {
			req.AddCookie(c)
		}
	}

	out := httptest.NewRecorder()
	handler.ServeHTTP(out, req)

	require.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, "user-42", seen.ID)
	assert.Equal(t, "ann@example.com", seen.Email)
}
