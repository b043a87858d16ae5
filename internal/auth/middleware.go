package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/cleannest/api-marketplace/internal/user"
	"gorm.io/gorm"
)

type ctxKey string

const ctxUserKey ctxKey = "currentUser"

// Gate resolves the acting user from a Bearer access token. Claims can outlive
// a deactivation, so the user row is reloaded and its status re-checked on
// every request instead of being trusted from the token.
type Gate struct {
	DB    *gorm.DB
	Codec *Codec
	Users user.Repository
}

func NewGate(db *gorm.DB, codec *Codec, users user.Repository) *Gate {
	return &Gate{DB: db, Codec: codec, Users: users}
}

// Authenticate verifies the access token and injects the resolved user into
// the request context. Every failure mode is a plain 401.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			writeError(w, ErrUnauthenticated)
			return
		}
		claims, err := g.Codec.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			writeError(w, ErrUnauthenticated)
			return
		}
		id, err := claims.UserID()
		if err != nil {
			writeError(w, ErrUnauthenticated)
			return
		}
		u, err := g.Users.FindByID(g.DB, id)
		if err != nil || !u.IsActive() {
			writeError(w, ErrUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route on the authenticated user's role. Must run after
// Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeError(w, ErrUnauthenticated)
				return
			}
			if u.Role != role {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "access forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser returns the user resolved by Authenticate for this request.
func CurrentUser(r *http.Request) (*user.User, bool) {
	u, ok := r.Context().Value(ctxUserKey).(*user.User)
	return u, ok
}
