// Package view holds the render-time rules shared by the web pages and the
// CLI. Everything here is a pure function of its arguments and is
// recomputed on every render.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcoot/elevate/internal/model"
)

// PlaceholderImage is shown for clubs without an image
const PlaceholderImage = "/static/placeholder-image.png"

// Dashboard is the dashboard variant to render
type Dashboard string

const (
	DashboardWithClubs Dashboard = "with-clubs"
	DashboardEmpty     Dashboard = "empty"
)

// SelectDashboard picks the dashboard variant for a club list
func SelectDashboard(clubs []model.Club) Dashboard {
	if len(clubs) > 0 {
		return DashboardWithClubs
	}
	return DashboardEmpty
}

// Action is the button offered next to a join request
type Action string

const (
	ActionNone     Action = ""
	ActionWithdraw Action = "Withdraw"
	ActionReapply  Action = "Reapply"
)

// RequestAction returns the action offered for a request in the given status
func RequestAction(status model.RequestStatus) Action {
	switch status {
	case model.RequestStatusPending:
		return ActionWithdraw
	case model.RequestStatusRejected:
		return ActionReapply
	default:
		return ActionNone
	}
}

// PendingRequests returns the requests still awaiting a decision, in order
func PendingRequests(requests []model.ClubRequest) []model.ClubRequest {
	var out []model.ClubRequest
	for _, r := range requests {
		if r.RequestStatus == model.RequestStatusPending {
			out = append(out, r)
		}
	}
	return out
}

// FormatEventDate renders a date as "DD MM YYYY"
func FormatEventDate(t time.Time) string {
	return t.Format("02 01 2006")
}

// ClubImageSrc returns an img src for a club: the inline image if the
// backend sent one, then the image URL, then the placeholder.
func ClubImageSrc(club model.Club) string {
	if club.Image != "" {
		return "data:image/jpeg;base64," + club.Image
	}
	if club.ImageURL != "" {
		return club.ImageURL
	}
	return PlaceholderImage
}

// Greeting returns the dashboard greeting for user, which may be nil
func Greeting(user *model.UserProfile) string {
	name := "User"
	if user != nil && strings.TrimSpace(user.FirstName) != "" {
		name = user.FirstName
	}
	return fmt.Sprintf("Welcome, %s!", name)
}

// MemberCount renders a club's member count
func MemberCount(n int) string {
	return fmt.Sprintf("%d Members", n)
}

// JoinButton returns the label of the join button for a join state and
// whether it is disabled
func JoinButton(js model.JoinState) (string, bool) {
	switch js {
	case model.JoinStatePending, model.JoinStateSent:
		return "Request Sent ✔", true
	default:
		return "Request to Join", false
	}
}
