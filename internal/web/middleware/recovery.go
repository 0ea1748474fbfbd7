package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/elevate/internal/middleware"
)

// Recovery creates panic recovery middleware for the web interface.
// Full page requests get an HTML error page, HTMX requests a plain 500.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, err any) {
	if IsHTMX(r) {
		middleware.DefaultPanicHandler(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Error - Elevate</title></head>
<body>
<h1>Internal Server Error</h1>
<p>Something went wrong. Please try again later.</p>
<p><a href="/dashboard">Return to your dashboard</a></p>
</body>
</html>`))
}

// IsHTMX reports whether the request was issued by htmx
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
