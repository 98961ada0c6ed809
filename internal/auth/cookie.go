package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"
)

// CookieName is the session cookie name, constant across the service.
const CookieName = "auth_token"

// ErrBadCookieSignature is returned when a cookie value fails HMAC
// verification.
var ErrBadCookieSignature = errors.New("cookie signature mismatch")

// CookieManager writes and reads the session cookie. The cookie value is
// HMAC-signed with a key separate from the token-signing secret, so a
// tampered cookie is rejected before the token inside it is even parsed.
type CookieManager struct {
	secret []byte
	domain string
	secure bool
}

// NewCookieManager creates a CookieManager. secure controls the cookie's
// Secure flag and should be true in production.
func NewCookieManager(secret, domain string, secure bool) *CookieManager {
	return &CookieManager{secret: []byte(secret), domain: domain, secure: secure}
}

// Set replaces the session cookie with a freshly signed one carrying token.
// The previous cookie is cleared first; there is no refresh logic beyond
// full replacement.
func (c *CookieManager) Set(w http.ResponseWriter, token string) {
	c.Clear(w)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    c.sign(token),
		Expires:  time.Now().Add(SessionTTL),
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear deletes the session cookie from the client.
func (c *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read extracts and verifies the session cookie, returning the token it
// carries. A missing cookie yields http.ErrNoCookie.
func (c *CookieManager) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return c.verify(cookie.Value)
}

func (c *CookieManager) sign(value string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(value))
	sig := mac.Sum(nil)
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func (c *CookieManager) verify(signed string) (string, error) {
	encoded, encodedSig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrBadCookieSignature
	}
	value, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrBadCookieSignature
	}
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return "", ErrBadCookieSignature
	}

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(value)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", ErrBadCookieSignature
	}
	return string(value), nil
}
