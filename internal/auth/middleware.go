package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type contextKey string

const principalKey = contextKey("principal")

// Session failure messages. Expired and tampered tokens are deliberately
// reported with the same message so the client cannot tell them apart.
const (
	msgTokenMissing = "token not received"
	msgTokenInvalid = "token expired or invalid"
)

// SessionMiddleware verifies the session cookie on every request it guards
// and attaches the decoded Principal to the request context. Requests with a
// missing or unverifiable session are rejected with 401 before the handler
// runs.
func SessionMiddleware(tokens *TokenManager, cookies *CookieManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cookies.Read(r)
			if err != nil {
				if err == http.ErrNoCookie {
					unauthorized(w, msgTokenMissing)
					return
				}
				log.Warn().Err(err).Msg("Rejected request with unverifiable session cookie")
				unauthorized(w, msgTokenInvalid)
				return
			}

			principal, err := tokens.Validate(token)
			if err != nil {
				log.Warn().Err(err).Msg("Rejected request with invalid session token")
				unauthorized(w, msgTokenInvalid)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the verified principal attached by
// SessionMiddleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// WithPrincipal returns a context carrying p. Test helper for exercising
// handlers without the middleware.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
