package middleware

import (
	"errors"
	"net/http"
	"strings"

	"cabin-booking/internal/booking"
	"cabin-booking/internal/data/repository"
	"cabin-booking/pkg/utils"

	"go.uber.org/zap"
)

// AuthSession resolves the bearer token to a Principal. The token must carry
// a valid signature and its jti must name a live session of an active user.
func AuthSession(secret string, sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := utils.ParseAccessToken(secret, parts[1])
			if err != nil {
				if errors.Is(err, booking.ErrTokenExpired) {
					utils.ResponseUnauthorized(w, "Token has expired")
					return
				}
				logger.Debug("Rejected bearer token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid token")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), claims.ID)
			if err != nil {
				logger.Error("Failed to validate session",
					zap.String("session", claims.ID),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil || session.UserID.String() != claims.Subject {
				logger.Warn("Invalid or revoked session", zap.String("session", claims.ID))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			user, err := userRepo.FindByID(r.Context(), session.UserID)
			if err != nil {
				logger.Error("Failed to load session user",
					zap.String("user_id", session.UserID.String()),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil || !user.IsActive {
				utils.ResponseUnauthorized(w, "Account is not active")
				return
			}

			ctx := utils.SetPrincipalContext(r.Context(), utils.Principal{
				UserID:  user.ID,
				IsStaff: user.IsStaff(),
			})
			ctx = utils.SetTokenContext(ctx, claims.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
