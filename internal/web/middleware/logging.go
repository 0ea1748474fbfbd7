package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/elevate/internal/middleware"
)

// Logging creates request logging for the web interface. Static assets and
// health checks are logged at debug level.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, middleware.Quiet("/static/", "/healthz"))
}
