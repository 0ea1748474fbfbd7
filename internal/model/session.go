package model

import "time"

// SessionID identifies one browser session
type SessionID string

// JoinState tracks a single "request to join" action for one club
type JoinState string

const (
	JoinStateIdle    JoinState = ""        // Never requested in this session
	JoinStatePending JoinState = "pending" // Request in flight, button shown as sent
	JoinStateSent    JoinState = "sent"    // Backend accepted the request
	JoinStateFailed  JoinState = "failed"  // Backend rejected or unreachable, button re-enabled
)

// SessionState is the per-session record of who is logged in and what
// clubs they belong to. User is nil when nobody is logged in.
type SessionState struct {
	ID        SessionID
	User      *UserProfile
	Clubs     []Club
	Joins     map[string]JoinState // keyed by club name
	UpdatedAt time.Time
}

// NewSessionState returns an empty session
func NewSessionState(id SessionID) *SessionState {
	return &SessionState{
		ID:    id,
		Clubs: []Club{},
		Joins: make(map[string]JoinState),
	}
}

// Event is a calendar entry
type Event struct {
	ID          int
	Title       string
	Date        time.Time
	Description string
	ClubID      ClubID
}
