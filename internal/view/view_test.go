package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/elevate/internal/model"
)

func TestSelectDashboard(t *testing.T) {
	assert.Equal(t, DashboardEmpty, SelectDashboard(nil))
	assert.Equal(t, DashboardEmpty, SelectDashboard([]model.Club{}))
	assert.Equal(t, DashboardWithClubs, SelectDashboard([]model.Club{{ClubID: 1, ClubName: "Chess Club"}}))
}

func TestRequestAction(t *testing.T) {
	tests := []struct {
		status model.RequestStatus
		want   Action
	}{
		{model.RequestStatusPending, ActionWithdraw},
		{model.RequestStatusRejected, ActionReapply},
		{model.RequestStatusApproved, ActionNone},
		{"UNKNOWN", ActionNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, RequestAction(tt.status))
		})
	}
}

func TestPendingRequests(t *testing.T) {
	requests := []model.ClubRequest{
		{ClubName: "Chess Club", RequestStatus: model.RequestStatusPending},
		{ClubName: "Drama Society", RequestStatus: model.RequestStatusApproved},
		{ClubName: "Robotics", RequestStatus: model.RequestStatusPending},
		{ClubName: "Art", RequestStatus: model.RequestStatusRejected},
	}

	pending := PendingRequests(requests)
	assert.Len(t, pending, 2)
	assert.Equal(t, "Chess Club", pending[0].ClubName)
	assert.Equal(t, "Robotics", pending[1].ClubName)

	assert.Empty(t, PendingRequests(nil))
}

func TestFormatEventDate(t *testing.T) {
	assert.Equal(t, "04 03 2025", FormatEventDate(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "30 12 2026", FormatEventDate(time.Date(2026, 12, 30, 18, 0, 0, 0, time.UTC)))
}

func TestClubImageSrc(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", ClubImageSrc(model.Club{Image: "aGVsbG8=", ImageURL: "/img/x.png"}))
	assert.Equal(t, "/img/x.png", ClubImageSrc(model.Club{ImageURL: "/img/x.png"}))
	assert.Equal(t, PlaceholderImage, ClubImageSrc(model.Club{}))
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Welcome, User!", Greeting(nil))
	assert.Equal(t, "Welcome, User!", Greeting(&model.UserProfile{FirstName: "  "}))
	assert.Equal(t, "Welcome, A!", Greeting(&model.UserProfile{FirstName: "A"}))
}

func TestMemberCount(t *testing.T) {
	assert.Equal(t, "12 Members", MemberCount(12))
}

func TestJoinButton(t *testing.T) {
	label, disabled := JoinButton(model.JoinStateIdle)
	assert.Equal(t, "Request to Join", label)
	assert.False(t, disabled)

	label, disabled = JoinButton(model.JoinStatePending)
	assert.Equal(t, "Request Sent ✔", label)
	assert.True(t, disabled)

	label, disabled = JoinButton(model.JoinStateSent)
	assert.Equal(t, "Request Sent ✔", label)
	assert.True(t, disabled)

	label, disabled = JoinButton(model.JoinStateFailed)
	assert.Equal(t, "Request to Join", label)
	assert.False(t, disabled)
}
