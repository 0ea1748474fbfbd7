package ids

import (
	"github.com/google/uuid"

	"github.com/mcoot/elevate/internal/model"
)

// Generator produces session identifiers and can be mocked for testing
type Generator interface {
	NewSessionID() model.SessionID
}

// UUIDGenerator implements Generator with random (v4) UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewSessionID returns a fresh random session id
func (g *UUIDGenerator) NewSessionID() model.SessionID {
	return model.SessionID(uuid.NewString())
}

// Valid reports whether id has the shape of a generated session id
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
