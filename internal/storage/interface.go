package storage

import (
	"context"

	"github.com/mcoot/elevate/internal/model"
)

// Storage defines durable key-value storage for per-browser state
type Storage interface {
	// Session state operations
	SaveSession(ctx context.Context, state *model.SessionState) error
	GetSession(ctx context.Context, id model.SessionID) (*model.SessionState, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// Credential operations, one bearer token per session
	SaveCredential(ctx context.Context, id model.SessionID, token string) error
	GetCredential(ctx context.Context, id model.SessionID) (string, error)
	DeleteCredential(ctx context.Context, id model.SessionID) error
}
