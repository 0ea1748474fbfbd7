package memory

import (
	"context"
	"sync"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions    map[model.SessionID]*model.SessionState
	credentials map[model.SessionID]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:    make(map[model.SessionID]*model.SessionState),
		credentials: make(map[model.SessionID]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, state *model.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = cloneSession(state)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return cloneSession(state), nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, id model.SessionID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[id] = token
	return nil
}

func (s *Storage) GetCredential(ctx context.Context, id model.SessionID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.credentials[id]
	if !ok {
		return "", model.ErrCredentialNotFound
	}
	return token, nil
}

func (s *Storage) DeleteCredential(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.credentials, id)
	return nil
}

// cloneSession copies the slices and maps so callers never share state with
// the store
func cloneSession(state *model.SessionState) *model.SessionState {
	out := *state
	if state.User != nil {
		user := *state.User
		user.UserClubs = append([]model.UserClub(nil), state.User.UserClubs...)
		out.User = &user
	}
	out.Clubs = append([]model.Club{}, state.Clubs...)
	out.Joins = make(map[string]model.JoinState, len(state.Joins))
	for k, v := range state.Joins {
		out.Joins[k] = v
	}
	return &out
}
