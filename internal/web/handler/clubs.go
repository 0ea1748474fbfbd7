package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/services/membership"
	"github.com/mcoot/elevate/internal/web/middleware"
	"github.com/mcoot/elevate/internal/web/templates/components"
	"github.com/mcoot/elevate/internal/web/templates/pages"
)

// ClubHandler handles the club catalogue, join requests and announcements
type ClubHandler struct {
	membership *membership.Controller
	expiry     *SessionExpiry
	logger     *slog.Logger
}

// NewClubHandler creates a new ClubHandler
func NewClubHandler(controller *membership.Controller, expiry *SessionExpiry, logger *slog.Logger) *ClubHandler {
	return &ClubHandler{
		membership: controller,
		expiry:     expiry,
		logger:     logger,
	}
}

// Explore renders every club with a join button
func (h *ClubHandler) Explore(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	state := middleware.GetState(r.Context())

	clubs, err := sess.Client.FetchAllClubs(r.Context())
	if h.expiry.Handle(w, r, err) {
		return
	}

	render(w, r, pages.Explore(pages.ExploreData{
		PageData: pageData(r, "Explore", "/explore"),
		Grid:     clubGrid(r, state, clubs, err),
	}))
}

// Join files a join request. HTMX requests get the updated card back;
// plain form posts are redirected to the catalogue with a flash.
func (h *ClubHandler) Join(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	clubName := strings.TrimSpace(r.FormValue("clubName"))
	if clubName == "" {
		http.Error(w, "Club name is required", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	js, err := h.membership.Request(r.Context(), sess.Client, sess.Store, clubName)

	// Nobody is waiting for the response
	if r.Context().Err() != nil {
		return
	}
	if h.expiry.Handle(w, r, err) {
		return
	}
	if err != nil && !errors.Is(err, model.ErrJoinInFlight) {
		h.logger.Warn("join failed",
			slog.String("club", clubName),
			slog.String("error", err.Error()),
		)
	}

	if !middleware.IsHTMX(r) {
		switch {
		case js == model.JoinStateSent:
			middleware.SetFlash(w, "success", "Request sent to "+clubName)
		case js == model.JoinStateFailed:
			middleware.SetFlash(w, "error", "Failed to send request to "+clubName)
		}
		http.Redirect(w, r, "/explore", http.StatusSeeOther)
		return
	}

	render(w, r, components.JoinClubCard(components.JoinCardData{
		Club:      h.findClub(r.Context(), sess.Client, clubName),
		JoinState: js,
		CSRFToken: middleware.CSRFToken(r),
	}))
}

// findClub looks the club up in the catalogue for re-rendering its card.
// A failed lookup still yields a usable card with just the name.
func (h *ClubHandler) findClub(ctx context.Context, client clubLister, clubName string) model.Club {
	clubs, err := client.FetchAllClubs(ctx)
	if err == nil {
		for _, c := range clubs {
			if c.ClubName == clubName {
				return c
			}
		}
	}
	return model.Club{ClubName: clubName}
}

type clubLister interface {
	FetchAllClubs(ctx context.Context) ([]model.Club, error)
}

// Announcements renders the announcements of a club the user belongs to
func (h *ClubHandler) Announcements(w http.ResponseWriter, r *http.Request) {
	state := middleware.GetState(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.notFound(w, r, "Club not found")
		return
	}

	var club *model.Club
	for i := range state.Clubs {
		if state.Clubs[i].ClubID == model.ClubID(id) {
			club = &state.Clubs[i]
			break
		}
	}
	if club == nil {
		h.notFound(w, r, fmt.Sprintf("You are not a member of club %d", id))
		return
	}

	sess := middleware.GetSession(r.Context())
	announcements, err := sess.Client.FetchAnnouncements(r.Context(), club.ClubID)
	if h.expiry.Handle(w, r, err) {
		return
	}

	data := pages.AnnouncementsData{
		PageData:      pageData(r, club.ClubName, fmt.Sprintf("/clubs/%d/announcements", club.ClubID)),
		Club:          *club,
		Announcements: announcements,
	}
	if err != nil {
		data.Error = errorMessage(err)
	}
	render(w, r, pages.Announcements(data))
}

func (h *ClubHandler) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	renderStatus(w, r, http.StatusNotFound, pages.NotFound(pages.NotFoundData{
		PageData: pageData(r, "Not Found", ""),
		Message:  msg,
	}))
}
