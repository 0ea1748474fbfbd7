package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/elevate/internal/apiclient"
	"github.com/mcoot/elevate/internal/services/auth"
	"github.com/mcoot/elevate/internal/web/middleware"
	"github.com/mcoot/elevate/internal/web/templates/layout"
)

// pageData builds the shared page fields from the request context
func pageData(r *http.Request, title, activePath string) layout.PageData {
	data := layout.PageData{
		Title:      title,
		Flash:      middleware.GetFlash(r.Context()),
		CSRFToken:  middleware.CSRFToken(r),
		ActivePath: activePath,
	}
	if state := middleware.GetState(r.Context()); state != nil {
		data.Nav = true
		data.User = state.User
		data.Clubs = state.Clubs
	}
	return data
}

// render writes a component with status 200
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	renderStatus(w, r, http.StatusOK, c)
}

// renderStatus renders into a buffer first so a template failure can still
// produce a clean 500
func renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorMessage returns the message shown inline for a failed call
func errorMessage(err error) string {
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong"
}

// SessionExpiry is the one place that reacts to the backend rejecting the
// stored credential: the session is logged out and the browser sent to login.
type SessionExpiry struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewSessionExpiry creates a new SessionExpiry
func NewSessionExpiry(authService *auth.Service, logger *slog.Logger) *SessionExpiry {
	return &SessionExpiry{authService: authService, logger: logger}
}

// Handle reports whether err was an unauthorized response and, if so, has
// already written the redirect
func (e *SessionExpiry) Handle(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apiclient.IsUnauthorized(err) {
		return false
	}

	if sess := middleware.GetSession(r.Context()); sess != nil {
		// Finish the logout even if the browser has gone away
		if logoutErr := e.authService.Logout(context.WithoutCancel(r.Context()), sess); logoutErr != nil {
			e.logger.Error("failed to clear expired session",
				slog.String("session", string(sess.ID)),
				slog.String("error", logoutErr.Error()),
			)
		}
		e.logger.Info("credential rejected by backend", slog.String("session", string(sess.ID)))
	}

	middleware.SetFlash(w, "error", "Your session has expired. Please log in again.")
	middleware.RedirectToLogin(w, r)
	return true
}
