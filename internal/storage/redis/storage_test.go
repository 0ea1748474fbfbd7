package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/elevate/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	state := model.NewSessionState("sess-1")
	state.User = &model.UserProfile{UserID: 13, FirstName: "A", Email: "user1@gmail.com"}
	state.Clubs = []model.Club{{ClubID: 1, ClubName: "Chess", NoOfMembers: 3}}
	state.Joins["Drama"] = model.JoinStateSent

	err := s.storage.SaveSession(s.ctx, state)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(model.SessionID("sess-1"), retrieved.ID)
	s.Equal("A", retrieved.User.FirstName)
	s.Equal(state.Clubs, retrieved.Clubs)
	s.Equal(model.JoinStateSent, retrieved.Joins["Drama"])
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestEmptySessionRoundTripsNonNil() {
	state := &model.SessionState{ID: "sess-1"}
	s.Require().NoError(s.storage.SaveSession(s.ctx, state))

	retrieved, err := s.storage.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Nil(retrieved.User)
	s.NotNil(retrieved.Clubs)
	s.Empty(retrieved.Clubs)
	s.NotNil(retrieved.Joins)
}

func (s *StorageSuite) TestDeleteSession() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, model.NewSessionState("sess-1")))

	err := s.storage.DeleteSession(s.ctx, "sess-1")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionHasTTL() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, model.NewSessionState("sess-1")))

	ttl := s.mini.TTL(sessionKey("sess-1"))
	s.Equal(time.Hour, ttl)
}

func (s *StorageSuite) TestSessionExpires() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, model.NewSessionState("sess-1")))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Credential tests

func (s *StorageSuite) TestSaveAndGetCredential() {
	err := s.storage.SaveCredential(s.ctx, "sess-1", "abc")
	s.Require().NoError(err)

	token, err := s.storage.GetCredential(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal("abc", token)
}

func (s *StorageSuite) TestCredentialStoredUnderFixedKey() {
	s.Require().NoError(s.storage.SaveCredential(s.ctx, "sess-1", "abc"))

	value, err := s.mini.Get("elevate:credential:sess-1:jwtToken")
	s.Require().NoError(err)
	s.Equal("abc", value)
}

func (s *StorageSuite) TestGetCredentialNotFound() {
	_, err := s.storage.GetCredential(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrCredentialNotFound)
}

func (s *StorageSuite) TestDeleteCredential() {
	s.Require().NoError(s.storage.SaveCredential(s.ctx, "sess-1", "abc"))
	s.Require().NoError(s.storage.DeleteCredential(s.ctx, "sess-1"))

	_, err := s.storage.GetCredential(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrCredentialNotFound)
}

func (s *StorageSuite) TestSaveSessionRefreshesCredentialTTL() {
	s.Require().NoError(s.storage.SaveCredential(s.ctx, "sess-1", "abc"))
	s.mini.FastForward(30 * time.Minute)

	s.Require().NoError(s.storage.SaveSession(s.ctx, model.NewSessionState("sess-1")))

	s.Equal(time.Hour, s.mini.TTL(credentialKey("sess-1")))
}
