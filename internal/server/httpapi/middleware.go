package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/cloudsafe/cloudsafe/internal/server/auth"
	"github.com/cloudsafe/cloudsafe/internal/server/models"
)

type ctxKey string

const userCtxKey ctxKey = "user"

// userFromContext returns the account the middleware resolved for this
// request. Handlers behind the auth middleware can rely on it being set.
func userFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userCtxKey).(*models.User)
	return u
}

// authMiddleware verifies the Bearer token, cross-checks it against the
// X-User-Id header, and resolves the account. Requests with a missing or
// inconsistent identity are rejected before any handler runs.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		tokenString := strings.TrimPrefix(header, common.BearerPrefix)
		email, err := auth.GetUserIDFromToken(tokenString, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		// The subject header must agree with the token it was stored with.
		if subject := r.Header.Get(common.SubjectHeaderName); subject != email {
			writeError(w, http.StatusUnauthorized, "subject mismatch")
			return
		}

		user, err := s.users.Profile(r.Context(), email)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unknown account")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
