package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/handlers"
	"github.com/doccheck/marketplace/internal/handlers/schemas"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"go.uber.org/zap"
)

// AuthMiddleware loads the signed in user from the session cookie or a
// bearer token and puts it into the request context.
func AuthMiddleware(authHandler *handlers.AuthHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			cookie, err := r.Cookie(handlers.AccessTokenCookie)
			if err == nil && cookie.Value != "" {
				tokenString = cookie.Value
			} else {
				authHeader := r.Header.Get("Authorization")
				if strings.HasPrefix(authHeader, "Bearer ") {
					tokenString = strings.TrimPrefix(authHeader, "Bearer ")
				}
			}

			if tokenString == "" {
				reject(w, "Authorization token required")
				return
			}

			claims, err := authHandler.ValidateToken(tokenString)
			if err != nil {
				reject(w, "Invalid or expired token")
				return
			}
			user, err := authHandler.UserStorage.GetUserByID(r.Context(), claims.UserID)
			var notFound *customerror.NotFoundError
			if (err == nil && user == nil) || errors.As(err, &notFound) {
				logger.Log.Warn("session user not found", zap.String("user_id", claims.UserID))
				reject(w, "User not found")
				return
			}
			if err != nil {
				logger.Log.Error("session user was not loaded", zap.String("user_id", claims.UserID), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				return
			}

			ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, message)
}

func writeJSON(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(schemas.ErrorResponse{Error: message})
}
