package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/services/calendar"
	"github.com/mcoot/elevate/internal/view"
	"github.com/mcoot/elevate/internal/web/middleware"
	"github.com/mcoot/elevate/internal/web/templates/components"
	"github.com/mcoot/elevate/internal/web/templates/pages"
)

// DashboardHandler renders the dashboard variants
type DashboardHandler struct {
	calendar *calendar.Service
	expiry   *SessionExpiry
	logger   *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(cal *calendar.Service, expiry *SessionExpiry, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		calendar: cal,
		expiry:   expiry,
		logger:   logger,
	}
}

// View picks the dashboard variant from the session's clubs
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	state := middleware.GetState(r.Context())

	switch view.SelectDashboard(state.Clubs) {
	case view.DashboardWithClubs:
		h.withClubs(w, r, state)
	default:
		render(w, r, pages.EmptyDashboard(pages.EmptyDashboardData{
			PageData: pageData(r, "Dashboard", "/dashboard"),
			Greeting: view.Greeting(state.User),
		}))
	}
}

func (h *DashboardHandler) withClubs(w http.ResponseWriter, r *http.Request, state *model.SessionState) {
	sess := middleware.GetSession(r.Context())
	data := pages.DashboardData{
		PageData: pageData(r, "Dashboard", "/dashboard"),
	}

	upcoming, err := h.calendar.UpcomingToday(calendar.UpcomingLimit)
	if err != nil {
		h.logger.Warn("failed to load upcoming events", slog.String("error", err.Error()))
	}
	data.Upcoming = upcoming

	// The catalogue and the user's requests are independent calls
	var clubsErr, requestsErr error
	var wg sync.WaitGroup
	wg.Go(func() {
		data.Explore, clubsErr = sess.Client.FetchAllClubs(r.Context())
	})
	if state.User != nil {
		wg.Go(func() {
			data.Requests, requestsErr = sess.Client.FetchUserClubRequests(r.Context(), state.User.UserID)
		})
	}
	wg.Wait()

	for _, err := range []error{clubsErr, requestsErr} {
		if h.expiry.Handle(w, r, err) {
			return
		}
	}
	if clubsErr != nil {
		data.ExploreError = errorMessage(clubsErr)
	}
	if requestsErr != nil {
		data.RequestsError = errorMessage(requestsErr)
	}

	render(w, r, pages.Dashboard(data))
}

// Clubs renders the catalogue fragment the empty dashboard loads after the
// page itself
func (h *DashboardHandler) Clubs(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	state := middleware.GetState(r.Context())

	clubs, err := sess.Client.FetchAllClubs(r.Context())
	if h.expiry.Handle(w, r, err) {
		return
	}

	render(w, r, pages.ClubGrid(clubGrid(r, state, clubs, err)))
}

// clubGrid pairs each catalogue club with this session's join progress
func clubGrid(r *http.Request, state *model.SessionState, clubs []model.Club, err error) pages.ClubGridData {
	if err != nil {
		return pages.ClubGridData{Error: errorMessage(err)}
	}
	token := middleware.CSRFToken(r)
	cards := make([]components.JoinCardData, 0, len(clubs))
	for _, club := range clubs {
		cards = append(cards, components.JoinCardData{
			Club:      club,
			JoinState: state.Joins[club.ClubName],
			CSRFToken: token,
		})
	}
	return pages.ClubGridData{Cards: cards}
}
