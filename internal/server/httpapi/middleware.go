package httpapi

import (
	"context"
	"net/http"
	"strings"

	"lockbox/internal/server/auth"
)

type ctxKey int

const principalKey ctxKey = iota

// Principal is the verified caller identity attached to the request context.
type Principal struct {
	ID    string
	Email string
	Name  string
}

// authMiddleware verifies the bearer token and re-resolves its subject.
// Missing, malformed, invalid and expired tokens all produce the same 401 so
// a caller cannot tell which check failed. A token whose subject no longer
// exists is treated as revoked.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		user, err := s.users.GetCurrentUser(r.Context(), claims.UserID)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		p := &Principal{ID: user.ID, Email: user.Email, Name: user.Name}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// principalFrom returns the verified principal. The guard always runs before
// resource handlers, so absence is a programming error and reads as an
// unauthorized request rather than a panic.
func principalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}
