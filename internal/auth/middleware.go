package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ridoy-adhikary/towerCrane/internal/common"
)

// TokenParser validates a bearer token and returns its subject.
type TokenParser interface {
	ParseAccessToken(token string) (string, error)
}

// RequireAuth extracts and validates the bearer token, storing the
// authenticated user id on the request context.
func RequireAuth(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed authorization header", nil)
				return
			}
			userID, err := parser.ParseAccessToken(token)
			if err != nil {
				common.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(common.WithUserID(r.Context(), userID)))
		})
	}
}

// RequireRole gates a route to accounts holding the given role. It must be
// mounted after RequireAuth.
func RequireRole(svc *Service, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := common.UserID(r.Context())
			if !ok {
				common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
				return
			}
			got, err := svc.Role(r.Context(), userID)
			if err != nil {
				// A token for a deleted account is an auth failure; a
				// store outage is not.
				if errors.Is(err, ErrUserNotFound) {
					common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
					return
				}
				common.WriteError(w, err)
				return
			}
			if got != role {
				common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
