package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/elevate/internal/apiclient"
	"github.com/mcoot/elevate/internal/dependencies/mocks"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/storage/memory"
	"github.com/mcoot/elevate/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	backend *testutil.Backend
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.backend = testutil.NewBackend(s.T())
	testutil.SeedBackend(s.backend, testutil.ChessClub())

	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	client := apiclient.New(s.backend.URL, apiclient.WithLogger(testutil.NopLogger()))
	s.service = New(s.storage, client, s.clock, mocks.NewMockIDs(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) validCreds() model.Credentials {
	return model.Credentials{Email: testutil.TestEmail, Password: testutil.TestPassword}
}

// Session tests

func (s *ServiceSuite) TestNewSessionIsUnauthenticated() {
	sess := s.service.NewSession()
	s.Equal(model.SessionID("00000000-0000-0000-0000-000000000001"), sess.ID)

	ok, err := s.service.Authenticated(s.ctx, sess)
	s.Require().NoError(err)
	s.False(ok)
}

// Login tests

func (s *ServiceSuite) TestLoginLoadsUserAndClubs() {
	sess := s.service.NewSession()

	profile, err := s.service.Login(s.ctx, sess, s.validCreds())
	s.Require().NoError(err)
	s.Equal("A", profile.FirstName)

	state, err := sess.Store.State(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(state.User)
	s.Equal("A", state.User.FirstName)
	s.Equal([]model.Club{testutil.ChessClub()}, state.Clubs)
}

func (s *ServiceSuite) TestLoginStoresCredentialAndAttachesIt() {
	sess := s.service.NewSession()
	_, err := s.service.Login(s.ctx, sess, s.validCreds())
	s.Require().NoError(err)

	token, err := sess.Credentials.Token(s.ctx)
	s.Require().NoError(err)
	s.Equal(testutil.TestToken, token)

	ok, err := s.service.Authenticated(s.ctx, sess)
	s.Require().NoError(err)
	s.True(ok)

	// Every later authorized call carries the stored token
	_, err = sess.Client.FetchAllClubs(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Bearer abc"}, s.backend.AuthHeadersFor("GET /student/clubs"))
	s.Equal([]string{"Bearer abc"}, s.backend.AuthHeadersFor("GET /student/users/email"))
	s.Equal([]string{""}, s.backend.AuthHeadersFor("POST /auth/login"))
}

func (s *ServiceSuite) TestLoginWithWrongPasswordLeavesSessionEmpty() {
	sess := s.service.NewSession()

	_, err := s.service.Login(s.ctx, sess, model.Credentials{Email: testutil.TestEmail, Password: "wrong"})
	s.Require().Error(err)
	s.ErrorIs(err, ErrInvalidCredentials)
	s.True(apiclient.IsUnauthorized(err))

	state, err := sess.Store.State(s.ctx)
	s.Require().NoError(err)
	s.Nil(state.User)

	ok, err := s.service.Authenticated(s.ctx, sess)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ServiceSuite) TestLoginWithUnknownEmail() {
	sess := s.service.NewSession()

	_, err := s.service.Login(s.ctx, sess, model.Credentials{Email: "nobody@gmail.com", Password: "12345678"})
	s.ErrorIs(err, ErrInvalidCredentials)

	state, _ := sess.Store.State(s.ctx)
	s.Nil(state.User)
}

func (s *ServiceSuite) TestLoginUserDataFailureDropsCredential() {
	s.backend.FailWith("GET /student/users", http.StatusInternalServerError)
	sess := s.service.NewSession()

	_, err := s.service.Login(s.ctx, sess, s.validCreds())
	s.ErrorIs(err, ErrUserData)

	state, _ := sess.Store.State(s.ctx)
	s.Nil(state.User)

	ok, err := s.service.Authenticated(s.ctx, sess)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ServiceSuite) TestLoginEmptyUserDataIsAnError() {
	// Token works, but the profile lookup finds nobody
	s.backend.AddUser(model.UserProfile{Email: "ghost@gmail.com"}, "12345678", "ghost-token")
	delete(s.backend.Users, "ghost@gmail.com")
	sess := s.service.NewSession()

	_, err := s.service.Login(s.ctx, sess, model.Credentials{Email: "ghost@gmail.com", Password: "12345678"})
	s.ErrorIs(err, ErrUserData)
	s.True(errors.Is(err, model.ErrUserNotFound))
}

func (s *ServiceSuite) TestLoginWithCancelledContextWritesNothing() {
	sess := s.service.NewSession()
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.service.Login(ctx, sess, s.validCreds())
	s.Require().Error(err)

	state, _ := sess.Store.State(s.ctx)
	s.Nil(state.User)
}

func (s *ServiceSuite) TestSecondLoginReplacesUser() {
	other := model.UserProfile{UserID: 14, FirstName: "B", Email: "user2@gmail.com"}
	s.backend.AddUser(other, "password2", "def")
	sess := s.service.NewSession()

	_, err := s.service.Login(s.ctx, sess, s.validCreds())
	s.Require().NoError(err)
	_, err = s.service.Login(s.ctx, sess, model.Credentials{Email: "user2@gmail.com", Password: "password2"})
	s.Require().NoError(err)

	state, _ := sess.Store.State(s.ctx)
	s.Equal("B", state.User.FirstName)
	s.Empty(state.Clubs)
}

// cancelAfter cancels the request context once a response for path has
// been received
type cancelAfter struct {
	path   string
	cancel context.CancelFunc
}

func (c cancelAfter) RoundTrip(r *http.Request) (*http.Response, error) {
	resp, err := http.DefaultTransport.RoundTrip(r)
	if r.URL.Path == c.path {
		c.cancel()
	}
	return resp, err
}

// failingSaves rejects every session write
type failingSaves struct {
	*memory.Storage
}

func (f failingSaves) SaveSession(context.Context, *model.SessionState) error {
	return errors.New("storage unavailable")
}

func (s *ServiceSuite) TestLoginCancelledAfterUserFetchDropsCredential() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	client := apiclient.New(s.backend.URL,
		apiclient.WithLogger(testutil.NopLogger()),
		apiclient.WithHTTPClient(&http.Client{Transport: cancelAfter{path: "/student/users/email", cancel: cancel}}),
	)
	service := New(s.storage, client, s.clock, mocks.NewMockIDs(), testutil.NopLogger())
	sess := service.NewSession()

	_, err := service.Login(ctx, sess, s.validCreds())
	s.Require().Error(err)

	ok, err := service.Authenticated(s.ctx, sess)
	s.Require().NoError(err)
	s.False(ok, "guard must stay closed")

	state, _ := sess.Store.State(s.ctx)
	s.Nil(state.User)
	s.Empty(state.Clubs)
}

func (s *ServiceSuite) TestLoginStorageFailureDropsCredential() {
	store := failingSaves{Storage: s.storage}
	client := apiclient.New(s.backend.URL, apiclient.WithLogger(testutil.NopLogger()))
	service := New(store, client, s.clock, mocks.NewMockIDs(), testutil.NopLogger())
	sess := service.NewSession()

	_, err := service.Login(s.ctx, sess, s.validCreds())
	s.Require().Error(err)

	ok, err := service.Authenticated(s.ctx, sess)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ServiceSuite) TestSecondLoginResetsJoinProgress() {
	other := model.UserProfile{UserID: 14, FirstName: "B", Email: "user2@gmail.com"}
	s.backend.AddUser(other, "password2", "def")
	sess := s.service.NewSession()

	_, err := s.service.Login(s.ctx, sess, s.validCreds())
	s.Require().NoError(err)
	s.Require().NoError(sess.Store.SetJoinState(s.ctx, "Drama Society", model.JoinStateSent))

	_, err = s.service.Login(s.ctx, sess, model.Credentials{Email: "user2@gmail.com", Password: "password2"})
	s.Require().NoError(err)

	js, err := sess.Store.JoinState(s.ctx, "Drama Society")
	s.Require().NoError(err)
	s.Equal(model.JoinStateIdle, js)
}

// Logout tests

func (s *ServiceSuite) TestLogoutClearsCredentialAndState() {
	sess := s.service.NewSession()
	_, err := s.service.Login(s.ctx, sess, s.validCreds())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Logout(s.ctx, sess))

	ok, err := s.service.Authenticated(s.ctx, sess)
	s.Require().NoError(err)
	s.False(ok)

	state, _ := sess.Store.State(s.ctx)
	s.Nil(state.User)
	s.Empty(state.Clubs)
}

func (s *ServiceSuite) TestOpenSharesStateWithSameID() {
	sess := s.service.NewSession()
	_, err := s.service.Login(s.ctx, sess, s.validCreds())
	s.Require().NoError(err)

	reopened := s.service.Open(sess.ID)
	ok, err := s.service.Authenticated(s.ctx, reopened)
	s.Require().NoError(err)
	s.True(ok)
}

// Signup tests

func (s *ServiceSuite) validNewUser() model.NewUser {
	return model.NewUser{
		FirstName: "Ranjith",
		LastName:  "K",
		Email:     "ranjith@gmail.com",
		Password:  "secret123",
		Phone:     "0400000000",
		Address:   "1 College Rd",
		Birthday:  "2003-05-01",
	}
}

func (s *ServiceSuite) TestSignupSendsDefaultRole() {
	err := s.service.Signup(s.ctx, s.validNewUser())
	s.Require().NoError(err)

	s.Require().Len(s.backend.CreatedUsers, 1)
	s.Equal(model.RoleStudent, s.backend.CreatedUsers[0].Role)
	s.Equal("ranjith@gmail.com", s.backend.CreatedUsers[0].Email)
}

func (s *ServiceSuite) TestSignupValidation() {
	user := s.validNewUser()
	user.FirstName = ""
	user.Email = "not-an-email"
	user.Password = "short"
	user.Birthday = "2030-01-01"

	err := s.service.Signup(s.ctx, user)
	var fieldErrors ValidationErrors
	s.Require().ErrorAs(err, &fieldErrors)
	s.Contains(fieldErrors, "firstName")
	s.Contains(fieldErrors, "email")
	s.Contains(fieldErrors, "password")
	s.Contains(fieldErrors, "birthday")
	s.Empty(s.backend.CreatedUsers)
}

func (s *ServiceSuite) TestSignupBackendConflict() {
	user := s.validNewUser()
	user.Email = testutil.TestEmail

	err := s.service.Signup(s.ctx, user)
	apiErr, ok := apiclient.AsError(err)
	s.Require().True(ok)
	s.Equal(http.StatusConflict, apiErr.Status)
	s.Equal("Email already registered", apiErr.Message)
}
