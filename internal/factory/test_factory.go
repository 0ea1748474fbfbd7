package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/elevate/internal/apiclient"
	"github.com/mcoot/elevate/internal/dependencies/mocks"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
}

// NewTestApp creates an App configured for testing with mocked dependencies,
// talking to the backend at baseURL
func NewTestApp(baseURL string) *TestApp {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()
	client := apiclient.New(baseURL, apiclient.WithLogger(logger))

	app := newWithDependencies(store, client, mockClock, mockIDs, logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}

// LoadTestEvents loads a small calendar around the mocked date
func (t *TestApp) LoadTestEvents() {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	t.CalendarService.LoadEvents([]model.Event{
		{ID: 2, Title: "Chess Tournament", Date: day(4), Description: "Annual chess competition", ClubID: 1},
		{ID: 10, Title: "Science Fair", Date: day(10), Description: "Showcase of student projects"},
		{ID: 15, Title: "Drama Night", Date: day(22), Description: "An evening of short plays"},
	})
}
