package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/services/auth"
)

const (
	stateContextKey contextKey = "state"

	// LoginPath is where the guard sends visitors without a credential
	LoginPath = "/login"
)

// GetState retrieves the session state loaded by the guard
// Returns nil outside guarded routes
func GetState(ctx context.Context) *model.SessionState {
	state, _ := ctx.Value(stateContextKey).(*model.SessionState)
	return state
}

// RequireLogin guards a route: a stored credential lets the request through
// with the session state in its context, anything else is sent to login.
// Must run after Session.
func RequireLogin(authService *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if sess == nil {
				RedirectToLogin(w, r)
				return
			}

			ok, err := authService.Authenticated(r.Context(), sess)
			if err != nil {
				logger.Error("failed to read credential",
					slog.String("session", string(sess.ID)),
					slog.String("error", err.Error()),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if !ok {
				RedirectToLogin(w, r)
				return
			}

			state, err := sess.Store.State(r.Context())
			if err != nil {
				logger.Error("failed to load session",
					slog.String("session", string(sess.ID)),
					slog.String("error", err.Error()),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), stateContextKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectToLogin sends the browser to the login page. HTMX requests get an
// HX-Redirect so the whole page navigates rather than a fragment swap.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", LoginPath)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
