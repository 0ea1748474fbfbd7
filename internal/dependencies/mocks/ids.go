package mocks

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/elevate/internal/dependencies/ids"
	"github.com/mcoot/elevate/internal/model"
)

// MockIDs is a deterministic Generator for testing
type MockIDs struct {
	mu   sync.Mutex
	next int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a MockIDs starting at 1
func NewMockIDs() *MockIDs {
	return &MockIDs{next: 1}
}

// NewSessionID returns UUIDs 00000000-0000-0000-0000-000000000001, ...2, ...
func (m *MockIDs) NewSessionID() model.SessionID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", m.next))
	m.next++
	return model.SessionID(id.String())
}
