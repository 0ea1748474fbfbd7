package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/view"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

func newOutput(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LoginResult:
		o.printLoginResult(v)
	case model.UserProfile:
		o.printProfile(v)
	case []model.Club:
		o.printClubs(v)
	case []model.ClubRequest:
		o.printRequests(v)
	case []model.Announcement:
		o.printAnnouncements(v)
	case []model.Event:
		o.printEvents(v)
	case JoinResult:
		o.printJoinResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// LoginResult is what login reports: the profile, the clubs and which
// dashboard the web app would show
type LoginResult struct {
	User      model.UserProfile `json:"user"`
	Clubs     []model.Club      `json:"clubs"`
	Dashboard view.Dashboard    `json:"dashboard"`
}

// JoinResult reports a join request
type JoinResult struct {
	ClubName string          `json:"clubName"`
	State    model.JoinState `json:"state"`
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printLoginResult(r LoginResult) {
	o.printf("%s\n", view.Greeting(&r.User))
	o.printProfile(r.User)
	o.printf("Dashboard: %s\n", r.Dashboard)
	if len(r.Clubs) == 0 {
		o.printf("No clubs yet. Run 'elevate clubs list' to explore.\n")
		return
	}
	o.printf("My Clubs:\n")
	o.printClubs(r.Clubs)
}

func (o *Output) printProfile(p model.UserProfile) {
	o.printf("User: %s %s (%d)\n", p.FirstName, p.LastName, p.UserID)
	o.printf("Email: %s\n", p.Email)
	o.printf("Role: %s\n", p.Role)
}

func (o *Output) printClubs(clubs []model.Club) {
	if len(clubs) == 0 {
		o.printf("No clubs.\n")
		return
	}
	for _, c := range clubs {
		if c.ClubID != 0 {
			o.printf("  - %s [%d] - %s\n", c.ClubName, c.ClubID, view.MemberCount(c.NoOfMembers))
		} else {
			o.printf("  - %s - %s\n", c.ClubName, view.MemberCount(c.NoOfMembers))
		}
		if c.Description != "" {
			o.printf("      %s\n", c.Description)
		}
	}
}

func (o *Output) printRequests(requests []model.ClubRequest) {
	if len(requests) == 0 {
		o.printf("No requests yet.\n")
		return
	}
	for _, r := range requests {
		o.printf("  - %s: %s", r.ClubName, r.RequestStatus)
		if action := view.RequestAction(r.RequestStatus); action != view.ActionNone {
			o.printf(" (%s)", action)
		}
		o.printf("\n")
	}
}

func (o *Output) printAnnouncements(announcements []model.Announcement) {
	if len(announcements) == 0 {
		o.printf("No announcements yet.\n")
		return
	}
	for _, a := range announcements {
		o.printf("* %s\n", a.Title)
		if a.PostedBy != nil {
			o.printf("  Posted by %s %s\n", a.PostedBy.FirstName, a.PostedBy.LastName)
		}
		if a.Content != "" {
			o.printf("  %s\n", a.Content)
		}
	}
}

func (o *Output) printEvents(events []model.Event) {
	if len(events) == 0 {
		o.printf("No events.\n")
		return
	}
	for _, e := range events {
		o.printf("%s - %s\n", view.FormatEventDate(e.Date), e.Title)
	}
}

func (o *Output) printJoinResult(r JoinResult) {
	label, _ := view.JoinButton(r.State)
	o.printf("%s: %s\n", r.ClubName, label)
}
