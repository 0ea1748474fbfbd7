package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/elevate/internal/dependencies/clock"
	"github.com/mcoot/elevate/internal/services/calendar"
	"github.com/mcoot/elevate/internal/web/templates/pages"
)

// CalendarHandler renders the expanded calendar
type CalendarHandler struct {
	calendar *calendar.Service
	clock    clock.Clock
	logger   *slog.Logger
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(cal *calendar.Service, clk clock.Clock, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendar: cal,
		clock:    clk,
		logger:   logger,
	}
}

// View renders a month grid. ?date=YYYY-MM-DD selects a day and lists its
// events; ?month=YYYY-MM picks the month shown. Unparseable values are
// ignored.
func (h *CalendarHandler) View(w http.ResponseWriter, r *http.Request) {
	today := clock.Today(h.clock)
	month := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	data := pages.CalendarData{
		PageData: pageData(r, "Calendar", "/calendar"),
	}

	if raw := r.URL.Query().Get("date"); raw != "" {
		if selected, err := time.Parse(time.DateOnly, raw); err == nil {
			data.Selected = selected
			month = time.Date(selected.Year(), selected.Month(), 1, 0, 0, 0, 0, time.UTC)

			events, err := h.calendar.On(selected)
			if err != nil {
				h.logger.Warn("failed to load events", slog.String("error", err.Error()))
			}
			data.Events = events
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if m, err := time.Parse("2006-01", raw); err == nil {
			month = m
		}
	}

	data.Month = month
	data.Days = h.calendar.Month(month.Year(), month.Month())

	render(w, r, pages.Calendar(data))
}
