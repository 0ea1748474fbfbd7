// Package session holds the state of one browser session: the logged-in
// user, the clubs they belong to and the durable bearer credential.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/elevate/internal/dependencies/clock"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/storage"
)

// Store is the state container for one session. Every action replaces a
// field wholesale; nothing is merged and nothing is derived.
type Store struct {
	id      model.SessionID
	storage storage.Storage
	clock   clock.Clock

	// Serialises read-modify-write cycles issued through this Store value.
	// Writers racing through different Store values are last-writer-wins.
	mu sync.Mutex
}

// NewStore binds a Store to the session id
func NewStore(id model.SessionID, s storage.Storage, clk clock.Clock) *Store {
	return &Store{
		id:      id,
		storage: s,
		clock:   clk,
	}
}

// ID returns the session id this store is bound to
func (s *Store) ID() model.SessionID {
	return s.id
}

// State returns a snapshot of the session. A session that was never written
// reads as empty.
func (s *Store) State(ctx context.Context) (*model.SessionState, error) {
	state, err := s.storage.GetSession(ctx, s.id)
	if errors.Is(err, model.ErrSessionNotFound) {
		return model.NewSessionState(s.id), nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// SetUser replaces the stored profile
func (s *Store) SetUser(ctx context.Context, profile *model.UserProfile) error {
	return s.update(ctx, func(state *model.SessionState) {
		if profile == nil {
			state.User = nil
			return
		}
		p := *profile
		state.User = &p
	})
}

// SetUserClubs replaces the stored club list
func (s *Store) SetUserClubs(ctx context.Context, clubs []model.Club) error {
	return s.update(ctx, func(state *model.SessionState) {
		state.Clubs = append([]model.Club{}, clubs...)
	})
}

// LogoutUser clears the profile, the club list and any join progress
func (s *Store) LogoutUser(ctx context.Context) error {
	return s.update(ctx, func(state *model.SessionState) {
		state.User = nil
		state.Clubs = []model.Club{}
		state.Joins = make(map[string]model.JoinState)
	})
}

// SetJoinState records the join progress for one club
func (s *Store) SetJoinState(ctx context.Context, clubName string, js model.JoinState) error {
	return s.update(ctx, func(state *model.SessionState) {
		if js == model.JoinStateIdle {
			delete(state.Joins, clubName)
			return
		}
		state.Joins[clubName] = js
	})
}

// JoinState returns the join progress for one club
func (s *Store) JoinState(ctx context.Context, clubName string) (model.JoinState, error) {
	state, err := s.State(ctx)
	if err != nil {
		return model.JoinStateIdle, err
	}
	return state.Joins[clubName], nil
}

func (s *Store) update(ctx context.Context, fn func(*model.SessionState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.State(ctx)
	if err != nil {
		return err
	}
	if state.Joins == nil {
		state.Joins = make(map[string]model.JoinState)
	}

	fn(state)
	state.UpdatedAt = s.clock.Now()

	return s.storage.SaveSession(ctx, state)
}
