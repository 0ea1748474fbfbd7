package layout

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path ..

import (
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/elevate/internal/model"
)

// CSRFFieldName is the form field gorilla/csrf reads the token from
const CSRFFieldName = "gorilla.csrf.Token"

// FlashMessage is a one-shot message carried across a redirect
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData is shared by every full page
type PageData struct {
	Title     string
	Flash     *FlashMessage
	CSRFToken string

	// Set on guarded pages to render the sidebar
	Nav        bool
	User       *model.UserProfile
	Clubs      []model.Club
	ActivePath string
}

type navLink struct {
	Path  string
	Label string
}

var navLinks = []navLink{
	{"/dashboard", "Dashboard"},
	{"/explore", "Explore"},
	{"/requests", "Requests"},
	{"/calendar", "Calendar"},
}

// csrfHeaders is the hx-headers value that sends the token with htmx requests
func csrfHeaders(token string) string {
	return `{"X-CSRF-Token": "` + token + `"}`
}

// ClubID formats a club id for data attributes
func ClubID(id model.ClubID) string {
	return strconv.FormatInt(int64(id), 10)
}

// AnnouncementsURL links to a member club's announcements
func AnnouncementsURL(id model.ClubID) templ.SafeURL {
	return templ.URL(fmt.Sprintf("/clubs/%d/announcements", id))
}
