package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFOptions configures form CSRF protection
type CSRFOptions struct {
	Key            []byte // 32 bytes; protection is off when empty
	Secure         bool
	TrustedOrigins []string
}

// CSRF protects form posts with gorilla/csrf. Without a key it passes
// requests through untouched.
func CSRF(opts CSRFOptions) func(http.Handler) http.Handler {
	if len(opts.Key) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	protect := csrf.Protect(
		opts.Key,
		csrf.Secure(opts.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(opts.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil && !opts.Secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token to embed in forms, or "" when protection is off
func CSRFToken(r *http.Request) string {
	return csrf.Token(r)
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	SetFlash(w, "error", "Your form expired. Please try again.")
	if IsHTMX(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}
