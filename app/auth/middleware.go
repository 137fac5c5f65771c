package auth

import (
	"context"
	"net/http"
	"strings"

	"postboard/app/models"

	"github.com/rs/zerolog/hlog"
)

// UserFinder loads the user a token was issued for.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Authenticate resolves the request's token to a user and stores it on the
// context. Requests without a usable token continue anonymously.
func Authenticate(m *Manager, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := m.Parse(raw)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("ignoring session token")
				next.ServeHTTP(w, r)
				return
			}
			user, err := users.GetByID(r.Context(), id)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Int64("user_id", id).Msg("session user not found")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// tokenFromRequest prefers an Authorization bearer header over the session cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
