package redis

import (
	"fmt"

	"github.com/mcoot/elevate/internal/model"
)

// Key prefix for all application data
const keyPrefix = "elevate"

// credentialName is the fixed key the bearer token is stored under
const credentialName = "jwtToken"

// sessionKey returns the Redis key for a session's state
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// credentialKey returns the Redis key for a session's bearer token
func credentialKey(id model.SessionID) string {
	return fmt.Sprintf("%s:credential:%s:%s", keyPrefix, id, credentialName)
}
