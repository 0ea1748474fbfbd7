package components

import "github.com/mcoot/elevate/internal/model"

// JoinCardData is a catalogue club with this session's join progress
type JoinCardData struct {
	Club      model.Club
	JoinState model.JoinState
	CSRFToken string
}

// RequestsData is the user's join requests
type RequestsData struct {
	Requests  []model.ClubRequest
	Error     string
	CSRFToken string
	Compact   bool // dashboard panel rather than the full page
}
