package membership

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/session"
)

// Joiner files join requests with the backend
type Joiner interface {
	RequestToJoinClub(ctx context.Context, clubName string) error
}

// Controller drives the per-club join state machine:
//
//	idle -> pending -> sent | failed
//	failed -> pending
type Controller struct {
	logger *slog.Logger
}

// NewController creates a new membership Controller
func NewController(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{logger: logger}
}

// CanRequest reports whether a join request may be started from js
func CanRequest(js model.JoinState) bool {
	return js == model.JoinStateIdle || js == model.JoinStateFailed
}

// Request moves clubName to pending, files the request and records the
// outcome. A request already pending or sent is not filed again. If ctx is
// cancelled while the request is in flight no outcome is recorded and the
// club goes back to the state it started from.
func (c *Controller) Request(ctx context.Context, joiner Joiner, store *session.Store, clubName string) (model.JoinState, error) {
	current, err := store.JoinState(ctx, clubName)
	if err != nil {
		return model.JoinStateIdle, err
	}
	switch current {
	case model.JoinStatePending:
		return current, model.ErrJoinInFlight
	case model.JoinStateSent:
		return current, nil
	}

	if err := store.SetJoinState(ctx, clubName, model.JoinStatePending); err != nil {
		return current, err
	}

	reqErr := joiner.RequestToJoinClub(ctx, clubName)

	if ctxErr := ctx.Err(); ctxErr != nil {
		if err := store.SetJoinState(context.WithoutCancel(ctx), clubName, current); err != nil {
			return model.JoinStatePending, errors.Join(ctxErr, err)
		}
		return current, errors.Join(ctxErr, reqErr)
	}

	if reqErr != nil {
		c.logger.Warn("join request failed",
			slog.String("session", string(store.ID())),
			slog.String("club", clubName),
			slog.String("error", reqErr.Error()),
		)
		if err := store.SetJoinState(ctx, clubName, model.JoinStateFailed); err != nil {
			return model.JoinStatePending, err
		}
		return model.JoinStateFailed, reqErr
	}

	if err := store.SetJoinState(ctx, clubName, model.JoinStateSent); err != nil {
		return model.JoinStatePending, err
	}
	c.logger.Info("join request sent",
		slog.String("session", string(store.ID())),
		slog.String("club", clubName),
	)
	return model.JoinStateSent, nil
}

// Reapply re-files a join request for a club whose earlier request was
// rejected. Any join progress recorded in this session is reset first.
func (c *Controller) Reapply(ctx context.Context, joiner Joiner, store *session.Store, clubName string) (model.JoinState, error) {
	current, err := store.JoinState(ctx, clubName)
	if err != nil {
		return model.JoinStateIdle, err
	}
	if current == model.JoinStatePending {
		return current, model.ErrJoinInFlight
	}
	if current == model.JoinStateSent {
		if err := store.SetJoinState(ctx, clubName, model.JoinStateIdle); err != nil {
			return current, err
		}
	}
	return c.Request(ctx, joiner, store, clubName)
}
