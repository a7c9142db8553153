package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/service"

	"go.uber.org/zap"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// RespondWithError sends a structured error response
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithErrorDetails(w, statusCode, message, nil)
}

// RespondWithErrorDetails sends a structured error response with additional details
func RespondWithErrorDetails(w http.ResponseWriter, statusCode int, message string, details map[string]interface{}) {
	RespondWithJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:      http.StatusText(statusCode),
			Message:   message,
			Details:   details,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// RespondWithValidationErrors sends a 422 listing every rejected field
func RespondWithValidationErrors(w http.ResponseWriter, fields []domain.FieldError) {
	details := map[string]interface{}{
		"validation_errors": fields,
	}
	RespondWithErrorDetails(w, http.StatusUnprocessableEntity, "validation failed", details)
}

// RespondWithServiceError maps an error returned by a service to a response:
// not found 404, invalid input 422, bad credentials 401, anything else 500
func RespondWithServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondWithValidationErrors(w, verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		RespondWithError(w, http.StatusUnauthorized, "invalid token")
	default:
		logger.Error("Request failed", zap.Error(err))
		RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					RespondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
