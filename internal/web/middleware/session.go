package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/mcoot/elevate/internal/dependencies/ids"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/services/auth"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"

	// SessionCookieName holds the browser's session id
	SessionCookieName = "elevate_session"
)

// SessionOptions configures the session cookie
type SessionOptions struct {
	MaxAge time.Duration
	Secure bool
}

// GetSession retrieves the browser session from the request context
func GetSession(ctx context.Context) *auth.Session {
	sess, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return sess
}

// Session binds every request to a browser session. A missing or malformed
// cookie starts a new, empty session. The cookie is refreshed on every
// response so an active browser keeps its session.
func Session(authService *auth.Service, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *auth.Session
			if cookie, err := r.Cookie(SessionCookieName); err == nil && ids.Valid(cookie.Value) {
				sess = authService.Open(model.SessionID(cookie.Value))
			} else {
				sess = authService.NewSession()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    string(sess.ID),
				Path:     "/",
				MaxAge:   int(opts.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
