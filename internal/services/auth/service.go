package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/mcoot/elevate/internal/apiclient"
	"github.com/mcoot/elevate/internal/dependencies/clock"
	"github.com/mcoot/elevate/internal/dependencies/ids"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/session"
	"github.com/mcoot/elevate/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserData           = errors.New("error fetching user data")
)

// MinPasswordLength is the shortest password accepted at signup
const MinPasswordLength = 8

// Session groups everything bound to one browser session
type Session struct {
	ID          model.SessionID
	Store       *session.Store
	Credentials *session.Credentials
	Client      *apiclient.Client
}

// Service runs the login, signup and logout flows against the backend
type Service struct {
	storage storage.Storage
	client  *apiclient.Client
	clock   clock.Clock
	ids     ids.Generator
	logger  *slog.Logger
}

// New creates a new auth Service
func New(store storage.Storage, client *apiclient.Client, clk clock.Clock, gen ids.Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		storage: store,
		client:  client,
		clock:   clk,
		ids:     gen,
		logger:  logger,
	}
}

// NewSession allocates a fresh, empty session
func (s *Service) NewSession() *Session {
	return s.Open(s.ids.NewSessionID())
}

// Open binds to an existing session id
func (s *Service) Open(id model.SessionID) *Session {
	creds := session.NewCredentials(id, s.storage)
	return &Session{
		ID:          id,
		Store:       session.NewStore(id, s.storage, s.clock),
		Credentials: creds,
		Client:      s.client.WithCredentials(creds),
	}
}

// Authenticated reports whether the session holds a credential. Presence is
// all that is checked; an expired token only shows up when a call fails.
func (s *Service) Authenticated(ctx context.Context, sess *Session) (bool, error) {
	return sess.Credentials.Present(ctx)
}

// Login authenticates, then loads the user's profile and clubs into the
// session. On any failure after authentication no credential is kept. The
// session is reset before the new user is stored so nothing carries over
// from a previous account.
func (s *Service) Login(ctx context.Context, sess *Session, creds model.Credentials) (_ *model.UserProfile, err error) {
	creds.Email = strings.TrimSpace(creds.Email)

	if _, err := sess.Client.UserAuth(ctx, creds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	// A token without a profile would open the guard onto an empty
	// dashboard, so drop it whenever the rest of the login fails
	defer func() {
		if err == nil {
			return
		}
		if clearErr := sess.Credentials.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			s.logger.Error("failed to clear credential", slog.String("error", clearErr.Error()))
		}
	}()

	users, err := sess.Client.FetchUserData(ctx, creds.Email)
	if err == nil && len(users) == 0 {
		err = model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUserData, err)
	}

	// The request may have been abandoned while the calls were in flight
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile := users[0]
	if err := sess.Store.LogoutUser(ctx); err != nil {
		return nil, err
	}
	if err := sess.Store.SetUser(ctx, &profile); err != nil {
		return nil, err
	}
	if err := sess.Store.SetUserClubs(ctx, profile.Clubs()); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		slog.String("session", string(sess.ID)),
		slog.Int64("user_id", int64(profile.UserID)),
		slog.Int("clubs", len(profile.UserClubs)),
	)

	return &profile, nil
}

// Logout clears the credential and the session state
func (s *Service) Logout(ctx context.Context, sess *Session) error {
	if err := sess.Credentials.Clear(ctx); err != nil {
		return err
	}
	if err := sess.Store.LogoutUser(ctx); err != nil {
		return err
	}
	s.logger.Info("user logged out", slog.String("session", string(sess.ID)))
	return nil
}

// ValidationErrors maps form field names to messages
type ValidationErrors map[string]string

// Error implements the error interface
func (v ValidationErrors) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(v))
}

// ValidateNewUser checks a signup payload before it is sent
func (s *Service) ValidateNewUser(user model.NewUser) ValidationErrors {
	fieldErrors := make(ValidationErrors)

	required := map[string]string{
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
		"password":  user.Password,
		"phone":     user.Phone,
		"address":   user.Address,
		"birthday":  user.Birthday,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			fieldErrors[field] = "This field is required"
		}
	}

	if _, ok := fieldErrors["email"]; !ok {
		if _, err := mail.ParseAddress(user.Email); err != nil {
			fieldErrors["email"] = "Please enter a valid email address"
		}
	}
	if _, ok := fieldErrors["password"]; !ok && len(user.Password) < MinPasswordLength {
		fieldErrors["password"] = fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
	}
	if _, ok := fieldErrors["birthday"]; !ok {
		birthday, err := time.Parse(time.DateOnly, user.Birthday)
		if err != nil {
			fieldErrors["birthday"] = "Birthday must be a date"
		} else if birthday.After(s.clock.Now()) {
			fieldErrors["birthday"] = "Birthday cannot be in the future"
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// Signup validates and registers a new account. It does not log in.
func (s *Service) Signup(ctx context.Context, user model.NewUser) error {
	user.Email = strings.TrimSpace(user.Email)
	if user.Role == "" {
		user.Role = model.RoleStudent
	}

	if fieldErrors := s.ValidateNewUser(user); fieldErrors != nil {
		return fieldErrors
	}

	if err := s.client.CreateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user signed up", slog.String("email", user.Email))
	return nil
}
