package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/elevate/internal/dependencies/clock"
	"github.com/mcoot/elevate/internal/services/auth"
	"github.com/mcoot/elevate/internal/services/calendar"
	"github.com/mcoot/elevate/internal/services/membership"
	"github.com/mcoot/elevate/internal/web/handler"
	"github.com/mcoot/elevate/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger               *slog.Logger
	AuthService          *auth.Service
	MembershipController *membership.Controller
	CalendarService      *calendar.Service
	Clock                clock.Clock
	StaticDir            string        // Path to static files directory
	SessionTTL           time.Duration // Lifetime of the session cookie
	SecureCookies        bool
	CSRFKey              []byte // Enables CSRF protection when set
	TrustedOrigins       []string
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	sessionMiddleware := middleware.Session(cfg.AuthService, middleware.SessionOptions{
		MaxAge: cfg.SessionTTL,
		Secure: cfg.SecureCookies,
	})
	csrfMiddleware := middleware.CSRF(middleware.CSRFOptions{
		Key:            cfg.CSRFKey,
		Secure:         cfg.SecureCookies,
		TrustedOrigins: cfg.TrustedOrigins,
	})
	guardMiddleware := middleware.RequireLogin(cfg.AuthService, cfg.Logger)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create handlers
	expiry := handler.NewSessionExpiry(cfg.AuthService, cfg.Logger)
	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	dashboardHandler := handler.NewDashboardHandler(cfg.CalendarService, expiry, cfg.Logger)
	clubHandler := handler.NewClubHandler(cfg.MembershipController, expiry, cfg.Logger)
	requestHandler := handler.NewRequestHandler(cfg.MembershipController, expiry, cfg.Logger)
	calendarHandler := handler.NewCalendarHandler(cfg.CalendarService, cfg.Clock, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	r.HandleFunc("/healthz", homeHandler.Health).Methods(http.MethodGet)

	// Pages bound to a browser session
	site := r.NewRoute().Subrouter()
	site.Use(sessionMiddleware)
	site.Use(csrfMiddleware)
	site.Use(flashMiddleware)

	// Public routes
	site.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	site.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	site.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	site.HandleFunc("/signup", authHandler.SignupPage).Methods(http.MethodGet)
	site.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	site.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require a credential)
	protected := site.NewRoute().Subrouter()
	protected.Use(guardMiddleware)

	protected.HandleFunc("/dashboard", dashboardHandler.View).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/clubs", dashboardHandler.Clubs).Methods(http.MethodGet)
	protected.HandleFunc("/explore", clubHandler.Explore).Methods(http.MethodGet)
	protected.HandleFunc("/clubs/join", clubHandler.Join).Methods(http.MethodPost)
	protected.HandleFunc("/clubs/{id:[0-9]+}/announcements", clubHandler.Announcements).Methods(http.MethodGet)
	protected.HandleFunc("/requests", requestHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/requests/reapply", requestHandler.Reapply).Methods(http.MethodPost)
	protected.HandleFunc("/calendar", calendarHandler.View).Methods(http.MethodGet)

	return r
}
