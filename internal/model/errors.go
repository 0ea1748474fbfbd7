package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrCredentialNotFound = errors.New("credential not found")

	// Backend data errors
	ErrUserNotFound = errors.New("user not found")

	// Join errors
	ErrJoinInFlight = errors.New("join request already in flight")

	// Calendar errors
	ErrEventsNotLoaded = errors.New("events not loaded")
)
