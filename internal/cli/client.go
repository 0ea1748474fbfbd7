package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mcoot/elevate/internal/apiclient"
)

// tokenStore keeps the CLI credential in the token file
type tokenStore struct {
	cfg *Config
}

var _ apiclient.CredentialStore = (*tokenStore)(nil)

// Token returns the token from the flag, env or token file
func (s *tokenStore) Token(_ context.Context) (string, error) {
	return s.cfg.Token, nil
}

// SaveToken writes a freshly issued token to the token file
func (s *tokenStore) SaveToken(_ context.Context, token string) error {
	return s.cfg.SaveToken(token)
}

// NewClient creates the backend client used by every command
func NewClient(cfg *Config) *apiclient.Client {
	level := slog.LevelError
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return apiclient.New(cfg.ServerURL,
		apiclient.WithLogger(logger),
		apiclient.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	).WithCredentials(&tokenStore{cfg: cfg})
}

// errNotLoggedIn is returned by commands that need a stored token
var errNotLoggedIn = errors.New("not logged in: run 'elevate login' first")

func requireToken() error {
	if cfg.Token == "" {
		return errNotLoggedIn
	}
	return nil
}

// describe turns an API error into a message for the terminal
func describe(err error) error {
	if apiclient.IsUnauthorized(err) {
		return errors.New("session expired or rejected: run 'elevate login' again")
	}
	return err
}
