package session

import (
	"context"
	"errors"

	"github.com/mcoot/elevate/internal/apiclient"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/storage"
)

// Credentials is the durable bearer token slot of one session
type Credentials struct {
	id      model.SessionID
	storage storage.Storage
}

// NewCredentials binds a credential slot to the session id
func NewCredentials(id model.SessionID, s storage.Storage) *Credentials {
	return &Credentials{id: id, storage: s}
}

var _ apiclient.CredentialStore = (*Credentials)(nil)

// Token returns the stored token, or "" when none is stored
func (c *Credentials) Token(ctx context.Context) (string, error) {
	token, err := c.storage.GetCredential(ctx, c.id)
	if errors.Is(err, model.ErrCredentialNotFound) {
		return "", nil
	}
	return token, err
}

// SaveToken persists token
func (c *Credentials) SaveToken(ctx context.Context, token string) error {
	return c.storage.SaveCredential(ctx, c.id, token)
}

// Clear removes the stored token
func (c *Credentials) Clear(ctx context.Context) error {
	return c.storage.DeleteCredential(ctx, c.id)
}

// Present reports whether a non-empty token is stored
func (c *Credentials) Present(ctx context.Context) (bool, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}
