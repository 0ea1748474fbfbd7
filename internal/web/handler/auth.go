package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/elevate/internal/apiclient"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/services/auth"
	"github.com/mcoot/elevate/internal/web/middleware"
	"github.com/mcoot/elevate/internal/web/templates/pages"
)

// AuthHandler handles login, signup and logout
type AuthHandler struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// LoginPage renders the login form. A browser that already holds a
// credential goes straight to its dashboard.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, "", "")
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, "", "Invalid form data")
		return
	}

	creds := model.Credentials{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if creds.Email == "" || creds.Password == "" {
		h.renderLogin(w, r, creds.Email, "Invalid email or password")
		return
	}

	sess := middleware.GetSession(r.Context())
	_, err := h.authService.Login(r.Context(), sess, creds)
	switch {
	case err == nil:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.renderLogin(w, r, creds.Email, "Invalid email or password")
	case errors.Is(err, auth.ErrUserData):
		h.renderLogin(w, r, creds.Email, "Error fetching user data")
	default:
		h.logger.Warn("login failed", slog.String("error", err.Error()))
		h.renderLogin(w, r, creds.Email, "Login failed")
	}
}

// SignupPage renders the signup form
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.Signup(pages.SignupData{
		PageData:    pageData(r, "Sign Up", "/signup"),
		FieldErrors: map[string]string{},
	}))
}

// Signup handles signup form submission. Success does not log in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSignup(w, r, model.NewUser{}, "Invalid form data", nil)
		return
	}

	user := model.NewUser{
		FirstName: strings.TrimSpace(r.FormValue("firstName")),
		LastName:  strings.TrimSpace(r.FormValue("lastName")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Password:  r.FormValue("password"),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		Address:   strings.TrimSpace(r.FormValue("address")),
		Birthday:  strings.TrimSpace(r.FormValue("birthday")),
	}

	err := h.authService.Signup(r.Context(), user)
	if err != nil {
		var fieldErrors auth.ValidationErrors
		if errors.As(err, &fieldErrors) {
			h.renderSignup(w, r, user, "", fieldErrors)
			return
		}
		msg := "Signup failed"
		if apiErr, ok := apiclient.AsError(err); ok && apiErr.Kind == apiclient.KindStatus && apiErr.Message != "" {
			msg = apiErr.Message
		}
		h.renderSignup(w, r, user, msg, nil)
		return
	}

	middleware.SetFlash(w, "success", "Signup successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout clears the credential and the session, then shows the login page
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.GetSession(r.Context()); sess != nil {
		if err := h.authService.Logout(r.Context(), sess); err != nil {
			h.logger.Error("logout failed",
				slog.String("session", string(sess.ID)),
				slog.String("error", err.Error()),
			)
			middleware.SetFlash(w, "error", "Logout failed, please try again")
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}

	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) loggedIn(r *http.Request) bool {
	sess := middleware.GetSession(r.Context())
	if sess == nil {
		return false
	}
	ok, err := h.authService.Authenticated(r.Context(), sess)
	return err == nil && ok
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, email, errorMsg string) {
	render(w, r, pages.Login(pages.LoginData{
		PageData: pageData(r, "Login", "/login"),
		Email:    email,
		Error:    errorMsg,
	}))
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, user model.NewUser, errorMsg string, fieldErrors map[string]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string]string)
	}
	user.Password = ""
	render(w, r, pages.Signup(pages.SignupData{
		PageData:    pageData(r, "Sign Up", "/signup"),
		Form:        user,
		Error:       errorMsg,
		FieldErrors: fieldErrors,
	}))
}
