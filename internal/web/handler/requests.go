package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/services/membership"
	"github.com/mcoot/elevate/internal/web/middleware"
	"github.com/mcoot/elevate/internal/web/templates/pages"
)

// RequestHandler handles the user's join requests
type RequestHandler struct {
	membership *membership.Controller
	expiry     *SessionExpiry
	logger     *slog.Logger
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(controller *membership.Controller, expiry *SessionExpiry, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		membership: controller,
		expiry:     expiry,
		logger:     logger,
	}
}

// List renders the user's join requests with the action each status allows
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	state := middleware.GetState(r.Context())
	data := pages.RequestsPageData{
		PageData: pageData(r, "Requests", "/requests"),
	}

	if state.User == nil {
		data.Error = "Error fetching user data"
		render(w, r, pages.Requests(data))
		return
	}

	sess := middleware.GetSession(r.Context())
	requests, err := sess.Client.FetchUserClubRequests(r.Context(), state.User.UserID)
	if h.expiry.Handle(w, r, err) {
		return
	}
	if err != nil {
		data.Error = errorMessage(err)
	}
	data.Requests = requests

	render(w, r, pages.Requests(data))
}

// Reapply re-files a join request for a rejected club
func (h *RequestHandler) Reapply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	clubName := strings.TrimSpace(r.FormValue("clubName"))
	if clubName == "" {
		middleware.SetFlash(w, "error", "Club name is required")
		http.Redirect(w, r, "/requests", http.StatusSeeOther)
		return
	}

	sess := middleware.GetSession(r.Context())
	_, err := h.membership.Reapply(r.Context(), sess.Client, sess.Store, clubName)
	if r.Context().Err() != nil {
		return
	}
	if h.expiry.Handle(w, r, err) {
		return
	}

	switch {
	case err == nil:
		middleware.SetFlash(w, "success", "Request sent to "+clubName)
	case errors.Is(err, model.ErrJoinInFlight):
		middleware.SetFlash(w, "info", "A request to "+clubName+" is already being sent")
	default:
		h.logger.Warn("reapply failed",
			slog.String("club", clubName),
			slog.String("error", err.Error()),
		)
		middleware.SetFlash(w, "error", "Failed to send request: "+errorMessage(err))
	}
	http.Redirect(w, r, "/requests", http.StatusSeeOther)
}
