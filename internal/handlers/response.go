package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/handlers/schemas"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/models"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// GetUserFromContext извлекает пользователя, которого положил в контекст auth middleware
func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

func callerFrom(r *http.Request) (access.Caller, bool) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		return access.Caller{}, false
	}
	return access.CallerOf(user), true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Warn("error encoding response", zap.Error(err))
	}
}

// writeError answers with the code of a CustomError. Anything else is
// logged and hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Log.Warn("request timed out", zap.String("uri", r.RequestURI), zap.Error(err))
		writeJSON(w, http.StatusGatewayTimeout, schemas.ErrorResponse{Error: "request timed out"})
		return
	}

	var customErr customerror.CustomError
	if errors.As(err, &customErr) {
		code := customErr.GetHTTPCode()
		response := schemas.ErrorResponse{Error: customErr.Error()}

		var validation *customerror.ValidationError
		if errors.As(err, &validation) {
			response.Error = "validation error"
			response.Fields = validation.Fields
		}
		if code >= http.StatusInternalServerError {
			logger.Log.Error("request failed", zap.String("uri", r.RequestURI), zap.Error(err))
			response = schemas.ErrorResponse{Error: http.StatusText(code)}
		} else {
			logger.Log.Warn(customErr.Error(), zap.String("uri", r.RequestURI))
		}
		writeJSON(w, code, response)
		return
	}

	logger.Log.Error("request failed", zap.String("uri", r.RequestURI), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, schemas.ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return customerror.NewFieldError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, schemas.ErrorResponse{Error: "authentication required"})
}
