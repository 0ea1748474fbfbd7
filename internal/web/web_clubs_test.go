package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/testutil"
)

func TestExplore(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	rr := ts.get("/explore")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1", "Explore Clubs")
	assert.Equal(t, 2, doc.Find("div.join-club").Length())
	assertContainsElement(t, doc, "nav.sidebar a.active[href='/explore']")

	form := doc.Find("div.join-club[data-club-name='Drama Society'] form")
	assert.Equal(t, "/clubs/join", form.AttrOr("hx-post", ""))
	assert.Equal(t, "closest .club-card", form.AttrOr("hx-target", ""))
	assert.Equal(t, "Drama Society", form.Find("input[name='clubName']").AttrOr("value", ""))
}

func TestJoinClubHTMX(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	rr := ts.postHTMX("/clubs/join", url.Values{"clubName": {"Drama Society"}})
	assert.Equal(t, http.StatusOK, rr.Code)

	// The card comes back with the button disabled
	doc := parseHTML(rr.Body)
	card := doc.Find("div.join-club[data-club-name='Drama Society']")
	require.Equal(t, 1, card.Length())
	button := card.Find("button.join-button")
	assert.Contains(t, button.Text(), "Request Sent ✔")
	_, disabled := button.Attr("disabled")
	assert.True(t, disabled)
	assert.True(t, button.HasClass("active"))
	assertContainsText(t, doc, "p.club-description", "Plays every term")
	assertNotContainsElement(t, doc, "p.join-error")

	assert.Equal(t, []string{"Drama Society"}, ts.backend.JoinRequestsSeen())
	assert.Equal(t, model.JoinStateSent, ts.state().Joins["Drama Society"])

	// The catalogue remembers the request for this session
	doc = parseHTML(ts.get("/explore").Body)
	assertContainsText(t, doc, "div.join-club[data-club-name='Drama Society'] button.join-button", "Request Sent ✔")
	assertContainsText(t, doc, "div.join-club[data-club-name='Chess Club'] button.join-button", "Request to Join")
}

func TestJoinClubNotRepeated(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	ts.postHTMX("/clubs/join", url.Values{"clubName": {"Drama Society"}})
	rr := ts.postHTMX("/clubs/join", url.Values{"clubName": {"Drama Society"}})
	assert.Equal(t, http.StatusOK, rr.Code)

	assert.Len(t, ts.backend.JoinRequestsSeen(), 1, "Expected a single request to reach the backend")
}

func TestJoinClubFailureRollsBack(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()
	ts.backend.FailWith("POST /api/club-requests", http.StatusInternalServerError)

	rr := ts.postHTMX("/clubs/join", url.Values{"clubName": {"Drama Society"}})
	assert.Equal(t, http.StatusOK, rr.Code)

	// The button is enabled again with an error beside it
	doc := parseHTML(rr.Body)
	button := doc.Find("div.join-club[data-club-name='Drama Society'] button.join-button")
	assert.Contains(t, button.Text(), "Request to Join")
	_, disabled := button.Attr("disabled")
	assert.False(t, disabled)
	assertContainsText(t, doc, "p.join-error", "Failed to send request. Please try again.")
	assert.Equal(t, model.JoinStateFailed, ts.state().Joins["Drama Society"])

	// Retrying after the backend recovers succeeds
	ts.backend.Recover("POST /api/club-requests")
	rr = ts.postHTMX("/clubs/join", url.Values{"clubName": {"Drama Society"}})
	doc = parseHTML(rr.Body)
	assertContainsText(t, doc, "button.join-button", "Request Sent ✔")
	assert.Equal(t, model.JoinStateSent, ts.state().Joins["Drama Society"])
}

func TestJoinClubFormPost(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	rr := ts.post("/clubs/join", url.Values{"clubName": {"Chess Club"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/explore", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-success", "Request sent to Chess Club")
	assertContainsText(t, doc, "div.join-club[data-club-name='Chess Club'] button.join-button", "Request Sent ✔")
}

func TestJoinClubFormPostFailure(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()
	ts.backend.FailWith("POST /api/club-requests", http.StatusBadGateway)

	rr := ts.post("/clubs/join", url.Values{"clubName": {"Chess Club"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Failed to send request to Chess Club")
	assertContainsElement(t, doc, "div.join-club[data-club-name='Chess Club'] p.join-error")
}

func TestJoinClubMissingName(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	rr := ts.postHTMX("/clubs/join", url.Values{"clubName": {"  "}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, ts.backend.JoinRequestsSeen())
}

func TestRequestsPage(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.backend.Requests[13] = []model.ClubRequest{
		{UserID: 13, ClubName: "Drama Society", RequestStatus: model.RequestStatusPending},
		{UserID: 13, ClubName: "Robotics", RequestStatus: model.RequestStatusRejected},
		{UserID: 13, ClubName: "Chess Club", RequestStatus: model.RequestStatusApproved},
	}
	ts.login()

	rr := ts.get("/requests")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assert.Equal(t, 3, doc.Find("div.request-card").Length())
	assertContainsText(t, doc, "div.request-card[data-status='PENDING'] button.action-button", "Withdraw")
	assertContainsText(t, doc, "div.request-card[data-status='REJECTED'] button.action-button", "Reapply")
	assertNotContainsElement(t, doc, "div.request-card[data-status='APPROVED'] .action-button")
	// The full page has no Show More link
	assertNotContainsElement(t, doc, "a.show-more")
}

func TestRequestsPageEmpty(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	doc := parseHTML(ts.get("/requests").Body)
	assertContainsText(t, doc, "div.requests-container", "No requests yet.")
}

func TestReapply(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.backend.Requests[13] = []model.ClubRequest{
		{UserID: 13, ClubName: "Robotics", RequestStatus: model.RequestStatusRejected},
	}
	ts.login()

	rr := ts.post("/requests/reapply", url.Values{"clubName": {"Robotics"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/requests", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Request sent to Robotics")
	assert.Equal(t, []string{"Robotics"}, ts.backend.JoinRequestsSeen())

	// Reapplying again files another request
	ts.post("/requests/reapply", url.Values{"clubName": {"Robotics"}})
	assert.Equal(t, []string{"Robotics", "Robotics"}, ts.backend.JoinRequestsSeen())
}

func TestReapplyFailure(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()
	ts.backend.FailWith("POST /api/club-requests", http.StatusInternalServerError)

	rr := ts.post("/requests/reapply", url.Values{"clubName": {"Robotics"}})
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Failed to send request: forced failure 500")
}

func TestAnnouncements(t *testing.T) {
	ts := newWebTestServer(t, []model.Club{testutil.ChessClub()})
	poster := testutil.TestUser()
	ts.backend.Announcements[1] = []model.Announcement{
		{ID: 1, Title: "Club night moved", Content: "Thursday this week", Type: "GENERAL", PostedBy: &poster},
	}
	ts.login()

	rr := ts.get("/clubs/1/announcements")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1", "Chess Club")
	assertContainsText(t, doc, "article.announcement h3", "Club night moved")
	assertContainsText(t, doc, "article.announcement p.posted-by", "Posted by A Student")
}

func TestAnnouncementsEmpty(t *testing.T) {
	ts := newWebTestServer(t, []model.Club{testutil.ChessClub()})
	ts.login()

	doc := parseHTML(ts.get("/clubs/1/announcements").Body)
	assertContainsText(t, doc, "p.empty-text", "No announcements yet.")
}

func TestAnnouncementsNotMember(t *testing.T) {
	ts := newWebTestServer(t, []model.Club{testutil.ChessClub()})
	ts.login()

	rr := ts.get("/clubs/2/announcements")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "div.not-found", "You are not a member of club 2")
	assert.Empty(t, ts.backend.AuthHeadersFor("GET /api/announcements/2"))
}

func TestCalendar(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	rr := ts.get("/calendar")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h3.month-title", "March 2025")
	assertContainsElement(t, doc, "td.today a[data-date='2025-03-01']")
	assertContainsElement(t, doc, "a[data-date='2025-03-04'] span.event-dot")
	assertNotContainsElement(t, doc, "a[data-date='2025-03-05'] span.event-dot")
	assert.Equal(t, "/calendar?month=2025-04", doc.Find("a.next-month").AttrOr("href", ""))
}

func TestCalendarSelectedDay(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	doc := parseHTML(ts.get("/calendar?date=2025-03-22").Body)
	assertContainsElement(t, doc, "td.selected a[data-date='2025-03-22']")
	assertContainsText(t, doc, "div.event-list", "Chess Tournament")
	assertContainsText(t, doc, "div.event-list", "22 03 2025")

	doc = parseHTML(ts.get("/calendar?date=2025-03-05").Body)
	assertContainsText(t, doc, "div.event-list", "No events on this day.")
}

func TestCalendarOtherMonth(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	doc := parseHTML(ts.get("/calendar?month=2026-11").Body)
	assertContainsText(t, doc, "h3.month-title", "November 2026")
	assertContainsElement(t, doc, "a[data-date='2026-11-05'] span.event-dot")

	// Garbage is ignored
	doc = parseHTML(ts.get("/calendar?month=soon").Body)
	assertContainsText(t, doc, "h3.month-title", "March 2025")
}
