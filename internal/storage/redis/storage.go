package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, state *model.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	// Keep the credential alive as long as the session it belongs to
	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(state.ID), data, s.cfg.SessionTTL)
	if s.cfg.SessionTTL > 0 {
		pipe.Expire(ctx, credentialKey(state.ID), s.cfg.SessionTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.SessionState, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var state model.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Clubs == nil {
		state.Clubs = []model.Club{}
	}
	if state.Joins == nil {
		state.Joins = make(map[string]model.JoinState)
	}
	return &state, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, id model.SessionID, token string) error {
	return s.client.Set(ctx, credentialKey(id), token, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetCredential(ctx context.Context, id model.SessionID) (string, error) {
	token, err := s.client.Get(ctx, credentialKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrCredentialNotFound
		}
		return "", err
	}
	return token, nil
}

func (s *Storage) DeleteCredential(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, credentialKey(id)).Err()
}
