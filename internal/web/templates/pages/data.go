package pages

import (
	"time"

	"github.com/a-h/templ"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/services/calendar"
	"github.com/mcoot/elevate/internal/web/templates/components"
	"github.com/mcoot/elevate/internal/web/templates/layout"
)

// LandingData is the data for the landing page
type LandingData struct {
	layout.PageData
}

// LoginData is the data for the login page
type LoginData struct {
	layout.PageData
	Email string
	Error string
}

// SignupData is the data for the signup page
type SignupData struct {
	layout.PageData
	Form        model.NewUser
	Error       string
	FieldErrors map[string]string
}

type signupField struct {
	Name        string
	Type        string
	Placeholder string
	Value       func(model.NewUser) string
}

var signupFields = []signupField{
	{"firstName", "text", "First Name", func(u model.NewUser) string { return u.FirstName }},
	{"lastName", "text", "Last Name", func(u model.NewUser) string { return u.LastName }},
	{"email", "email", "Email", func(u model.NewUser) string { return u.Email }},
	{"password", "password", "Password", func(model.NewUser) string { return "" }},
	{"phone", "tel", "Phone", func(u model.NewUser) string { return u.Phone }},
	{"address", "text", "Address", func(u model.NewUser) string { return u.Address }},
	{"birthday", "date", "", func(u model.NewUser) string { return u.Birthday }},
}

// DashboardData is the data for the dashboard of a user with clubs
type DashboardData struct {
	layout.PageData
	Upcoming      []model.Event
	Explore       []model.Club
	ExploreError  string
	Requests      []model.ClubRequest
	RequestsError string
}

func (d DashboardData) requestsPanel() components.RequestsData {
	return components.RequestsData{
		Requests:  d.Requests,
		Error:     d.RequestsError,
		CSRFToken: d.CSRFToken,
		Compact:   true,
	}
}

// EmptyDashboardData is the data for the dashboard of a user with no clubs
type EmptyDashboardData struct {
	layout.PageData
	Greeting string
}

// ClubGridData is the catalogue as join cards
type ClubGridData struct {
	Cards []components.JoinCardData
	Error string
}

// ExploreData is the data for the club catalogue page
type ExploreData struct {
	layout.PageData
	Grid ClubGridData
}

// RequestsPageData is the data for the requests page
type RequestsPageData struct {
	layout.PageData
	Requests []model.ClubRequest
	Error    string
}

func (d RequestsPageData) list() components.RequestsData {
	return components.RequestsData{
		Requests:  d.Requests,
		Error:     d.Error,
		CSRFToken: d.CSRFToken,
	}
}

// AnnouncementsData is the data for a club's announcements page
type AnnouncementsData struct {
	layout.PageData
	Club          model.Club
	Announcements []model.Announcement
	Error         string
}

// NotFoundData is the data for the not found page
type NotFoundData struct {
	layout.PageData
	Message string
}

// CalendarData is the data for the expanded calendar
type CalendarData struct {
	layout.PageData
	Month    time.Time // first day of the shown month
	Days     []calendar.Day
	Selected time.Time // zero when no day is selected
	Events   []model.Event
}

func (d CalendarData) isSelected(day time.Time) bool {
	return !d.Selected.IsZero() && day.Equal(d.Selected)
}

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// weeks splits the month grid into rows of seven days
func weeks(days []calendar.Day) [][]calendar.Day {
	var rows [][]calendar.Day
	for len(days) > 0 {
		n := min(7, len(days))
		rows = append(rows, days[:n])
		days = days[n:]
	}
	return rows
}

func monthURL(t time.Time) templ.SafeURL {
	return templ.URL("/calendar?month=" + t.Format("2006-01"))
}

func dayURL(t time.Time) templ.SafeURL {
	return templ.URL("/calendar?date=" + t.Format(time.DateOnly))
}
