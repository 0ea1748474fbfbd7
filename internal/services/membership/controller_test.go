package membership

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/elevate/internal/dependencies/mocks"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/session"
	"github.com/mcoot/elevate/internal/storage/memory"
	"github.com/mcoot/elevate/internal/testutil"
)

// fakeJoiner answers join requests with err. When gate is set each request
// blocks until the gate is closed.
type fakeJoiner struct {
	mu      sync.Mutex
	err     error
	gate    chan struct{}
	started chan struct{}
	calls   []string
}

func (f *fakeJoiner) RequestToJoinClub(ctx context.Context, clubName string) error {
	f.mu.Lock()
	f.calls = append(f.calls, clubName)
	gate, started, err := f.gate, f.started, f.err
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeJoiner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type ControllerSuite struct {
	suite.Suite
	store      *session.Store
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	clk := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.store = session.NewStore("sess-1", memory.New(), clk)
	s.controller = NewController(testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) joinState(club string) model.JoinState {
	js, err := s.store.JoinState(s.ctx, club)
	s.Require().NoError(err)
	return js
}

func (s *ControllerSuite) TestCanRequest() {
	s.True(CanRequest(model.JoinStateIdle))
	s.True(CanRequest(model.JoinStateFailed))
	s.False(CanRequest(model.JoinStatePending))
	s.False(CanRequest(model.JoinStateSent))
}

func (s *ControllerSuite) TestRequestSuccess() {
	joiner := &fakeJoiner{}

	js, err := s.controller.Request(s.ctx, joiner, s.store, "Chess Club")
	s.Require().NoError(err)
	s.Equal(model.JoinStateSent, js)
	s.Equal(model.JoinStateSent, s.joinState("Chess Club"))
	s.Equal(1, joiner.callCount())
}

func (s *ControllerSuite) TestRequestIsPendingWhileInFlightThenRollsBack() {
	joiner := &fakeJoiner{
		err:     errors.New("HTTP error! Status: 500"),
		gate:    make(chan struct{}),
		started: make(chan struct{}),
	}

	done := make(chan model.JoinState)
	go func() {
		js, _ := s.controller.Request(s.ctx, joiner, s.store, "Chess Club")
		done <- js
	}()

	<-joiner.started
	// Button shows as sent and disabled while the call is outstanding
	s.Equal(model.JoinStatePending, s.joinState("Chess Club"))
	s.False(CanRequest(s.joinState("Chess Club")))

	close(joiner.gate)
	s.Equal(model.JoinStateFailed, <-done)

	// Failure re-enables the button
	s.Equal(model.JoinStateFailed, s.joinState("Chess Club"))
	s.True(CanRequest(s.joinState("Chess Club")))
}

func (s *ControllerSuite) TestRetryAfterFailure() {
	joiner := &fakeJoiner{err: errors.New("boom")}

	js, err := s.controller.Request(s.ctx, joiner, s.store, "Chess Club")
	s.Error(err)
	s.Equal(model.JoinStateFailed, js)

	joiner.mu.Lock()
	joiner.err = nil
	joiner.mu.Unlock()

	js, err = s.controller.Request(s.ctx, joiner, s.store, "Chess Club")
	s.Require().NoError(err)
	s.Equal(model.JoinStateSent, js)
	s.Equal(2, joiner.callCount())
}

func (s *ControllerSuite) TestRequestWhilePendingIsRejected() {
	s.Require().NoError(s.store.SetJoinState(s.ctx, "Chess Club", model.JoinStatePending))
	joiner := &fakeJoiner{}

	_, err := s.controller.Request(s.ctx, joiner, s.store, "Chess Club")
	s.ErrorIs(err, model.ErrJoinInFlight)
	s.Zero(joiner.callCount())
}

func (s *ControllerSuite) TestRequestAfterSentIsNotRepeated() {
	joiner := &fakeJoiner{}
	_, err := s.controller.Request(s.ctx, joiner, s.store, "Chess Club")
	s.Require().NoError(err)

	js, err := s.controller.Request(s.ctx, joiner, s.store, "Chess Club")
	s.Require().NoError(err)
	s.Equal(model.JoinStateSent, js)
	s.Equal(1, joiner.callCount())
}

// cancelWhileInFlight starts a request, cancels it once the backend call is
// underway and returns the result
func (s *ControllerSuite) cancelWhileInFlight(club string) (model.JoinState, error) {
	joiner := &fakeJoiner{
		gate:    make(chan struct{}),
		started: make(chan struct{}),
	}
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	type result struct {
		js  model.JoinState
		err error
	}
	done := make(chan result)
	go func() {
		js, err := s.controller.Request(ctx, joiner, s.store, club)
		done <- result{js, err}
	}()

	<-joiner.started
	cancel()
	r := <-done
	return r.js, r.err
}

func (s *ControllerSuite) TestCancelledRequestRestoresIdle() {
	js, err := s.cancelWhileInFlight("Chess Club")
	s.ErrorIs(err, context.Canceled)
	s.Equal(model.JoinStateIdle, js)

	s.Equal(model.JoinStateIdle, s.joinState("Chess Club"))
	s.True(CanRequest(s.joinState("Chess Club")))
}

func (s *ControllerSuite) TestCancelledRetryRestoresFailed() {
	s.Require().NoError(s.store.SetJoinState(s.ctx, "Chess Club", model.JoinStateFailed))

	js, err := s.cancelWhileInFlight("Chess Club")
	s.ErrorIs(err, context.Canceled)
	s.Equal(model.JoinStateFailed, js)
	s.Equal(model.JoinStateFailed, s.joinState("Chess Club"))
}

func (s *ControllerSuite) TestRequestAfterCancelledRequestIsFiled() {
	_, err := s.cancelWhileInFlight("Chess Club")
	s.Require().ErrorIs(err, context.Canceled)

	joiner := &fakeJoiner{}
	for range 3 {
		js, err := s.controller.Request(s.ctx, joiner, s.store, "Chess Club")
		s.Require().NoError(err)
		s.Equal(model.JoinStateSent, js)
	}
	// Only the first retry reaches the backend; later ones see sent
	s.Equal(1, joiner.callCount())
	s.Equal(model.JoinStateSent, s.joinState("Chess Club"))
}

func (s *ControllerSuite) TestClubsAreIndependent() {
	failing := &fakeJoiner{err: errors.New("boom")}
	ok := &fakeJoiner{}

	_, _ = s.controller.Request(s.ctx, failing, s.store, "Drama Society")
	_, err := s.controller.Request(s.ctx, ok, s.store, "Chess Club")
	s.Require().NoError(err)

	s.Equal(model.JoinStateFailed, s.joinState("Drama Society"))
	s.Equal(model.JoinStateSent, s.joinState("Chess Club"))
	s.Equal(model.JoinStateIdle, s.joinState("Robotics"))
}

func (s *ControllerSuite) TestReapplyResetsSentState() {
	joiner := &fakeJoiner{}
	_, err := s.controller.Request(s.ctx, joiner, s.store, "Chess Club")
	s.Require().NoError(err)

	js, err := s.controller.Reapply(s.ctx, joiner, s.store, "Chess Club")
	s.Require().NoError(err)
	s.Equal(model.JoinStateSent, js)
	s.Equal(2, joiner.callCount())
}
