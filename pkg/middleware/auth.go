package middleware

import (
	"net/http"
	"strings"
	"time"

	"vehicle-booking/internal/data/repository"
	"vehicle-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthSession resolves the bearer token to a session and stores the
// principal in the request context.
func AuthSession(sessionRepo repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, raw, found := strings.Cut(strings.TrimSpace(authHeader), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), token, time.Now())
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseUnavailable(w, "Session store unavailable")
				return
			}

			if session == nil {
				logger.Debug("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetPrincipalContext(r.Context(), utils.Principal{
				OwnerID:   session.OwnerID,
				Label:     session.OwnerLabel,
				Method:    string(session.Method),
				IssuedAt:  session.CreatedAt,
				ExpiresAt: session.ExpiresAt,
			})
			ctx = utils.SetTokenContext(ctx, token.String())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
