package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/warfront/internal/api/apierr"
	"github.com/mcoot/warfront/internal/middleware"
)

// RequestID tags API requests with an X-Request-ID
var RequestID = middleware.RequestID

// Logging creates request logging middleware for the API
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "api")))
}

// Recovery creates panic recovery middleware for the API.
// Panics become a JSON 500 response.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
