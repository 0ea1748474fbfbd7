package memory

import (
	"context"
	"testing"

	"github.com/mcoot/elevate/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	state := model.NewSessionState("sess-1")
	state.User = &model.UserProfile{UserID: 13, FirstName: "A"}
	state.Clubs = []model.Club{{ClubID: 1, ClubName: "Chess"}}

	err := s.storage.SaveSession(s.ctx, state)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal("A", retrieved.User.FirstName)
	s.Equal(state.Clubs, retrieved.Clubs)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionIsCopiedOnSave() {
	state := model.NewSessionState("sess-1")
	state.Clubs = []model.Club{{ClubID: 1}}
	state.Joins["Chess"] = model.JoinStatePending
	s.Require().NoError(s.storage.SaveSession(s.ctx, state))

	state.Clubs[0].ClubID = 99
	state.Joins["Chess"] = model.JoinStateFailed

	retrieved, err := s.storage.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(model.ClubID(1), retrieved.Clubs[0].ClubID)
	s.Equal(model.JoinStatePending, retrieved.Joins["Chess"])
}

func (s *StorageSuite) TestDeleteSession() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, model.NewSessionState("sess-1")))

	err := s.storage.DeleteSession(s.ctx, "sess-1")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "sess-1")
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

func (s *StorageSuite) TestCredentialOverwrite() {
	s.Require().NoError(s.storage.SaveCredential(s.ctx, "sess-1", "abc"))
	s.Require().NoError(s.storage.SaveCredential(s.ctx, "sess-1", "def"))

	token, err := s.storage.GetCredential(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal("def", token)
}

func (s *StorageSuite) TestDeleteCredential() {
	s.Require().NoError(s.storage.SaveCredential(s.ctx, "sess-1", "abc"))
	s.Require().NoError(s.storage.DeleteCredential(s.ctx, "sess-1"))

	_, err := s.storage.GetCredential(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrCredentialNotFound)
}

func (s *StorageSuite) TestCredentialsAreScopedPerSession() {
	s.Require().NoError(s.storage.SaveCredential(s.ctx, "sess-1", "abc"))

	_, err := s.storage.GetCredential(s.ctx, "sess-2")
	s.ErrorIs(err, model.ErrCredentialNotFound)
}
