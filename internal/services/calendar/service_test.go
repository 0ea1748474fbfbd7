package calendar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/elevate/internal/dependencies/mocks"
	"github.com/mcoot/elevate/internal/model"
)

const testEvents = `
events:
  - id: 2
    title: Event 1
    date: "2025-03-04"
    description: Content for event 1.
  - id: 10
    title: Event 5
    date: "2025-03-10"
    description: Content for event 5.
  - id: 15
    title: Music Workshop
    date: "2025-03-25"
    description: A workshop on music theory and practice.
  - id: 20
    title: Chess Tournament
    date: "2025-03-22"
    description: Annual chess tournament for all skill levels.
    clubId: 1
  - id: 25
    title: Art Exhibition
    date: "2025-03-30"
    description: A showcase of artwork from club members.
`

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 11, 9, 30, 0, 0, time.UTC))
	s.service = New(s.clock)
	s.Require().NoError(s.service.Load(strings.NewReader(testEvents)))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func titles(events []model.Event) []string {
	var out []string
	for _, e := range events {
		out = append(out, e.Title)
	}
	return out
}

func (s *ServiceSuite) TestLoad() {
	s.True(s.service.IsLoaded())
	s.Equal(5, s.service.Count())

	events, err := s.service.On(day(2025, 3, 22))
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(model.ClubID(1), events[0].ClubID)
	s.Equal("Annual chess tournament for all skill levels.", events[0].Description)
}

func (s *ServiceSuite) TestLoadFromFile() {
	path := filepath.Join(s.T().TempDir(), "events.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(testEvents), 0o600))

	svc := New(s.clock)
	s.Require().NoError(svc.LoadFromFile(path))
	s.Equal(5, svc.Count())
}

func (s *ServiceSuite) TestLoadRejectsBadDate() {
	svc := New(s.clock)
	err := svc.Load(strings.NewReader("events:\n  - id: 1\n    title: x\n    date: \"03/04/2025\"\n"))
	s.Error(err)
	s.False(svc.IsLoaded())
}

func (s *ServiceSuite) TestNotLoaded() {
	svc := New(s.clock)
	_, err := svc.Upcoming(s.clock.Now(), UpcomingLimit)
	s.ErrorIs(err, model.ErrEventsNotLoaded)
	_, err = svc.On(s.clock.Now())
	s.ErrorIs(err, model.ErrEventsNotLoaded)
}

func (s *ServiceSuite) TestUpcomingShowsSoonestOnly() {
	events, err := s.service.UpcomingToday(UpcomingLimit)
	s.Require().NoError(err)
	s.Equal([]string{"Chess Tournament"}, titles(events))
}

func (s *ServiceSuite) TestUpcomingIsSortedAndSkipsPast() {
	events, err := s.service.Upcoming(s.clock.Now(), 0)
	s.Require().NoError(err)
	s.Equal([]string{"Chess Tournament", "Music Workshop", "Art Exhibition"}, titles(events))
}

func (s *ServiceSuite) TestUpcomingIncludesToday() {
	events, err := s.service.Upcoming(time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC), 1)
	s.Require().NoError(err)
	s.Equal([]string{"Event 5"}, titles(events))
}

func (s *ServiceSuite) TestUpcomingAfterLastEventIsEmpty() {
	events, err := s.service.Upcoming(day(2025, 4, 1), UpcomingLimit)
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *ServiceSuite) TestOnDayWithoutEvents() {
	events, err := s.service.On(day(2025, 3, 5))
	s.Require().NoError(err)
	s.Empty(events)
	s.False(s.service.HasEvent(day(2025, 3, 5)))
	s.True(s.service.HasEvent(time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC)))
}

func (s *ServiceSuite) TestMonthGrid() {
	days := s.service.Month(2025, time.March)

	// March 2025 starts on a Saturday and ends on a Monday
	s.Require().Len(days, 42)
	s.Equal(day(2025, 2, 24), days[0].Date)
	s.Equal(time.Monday, days[0].Date.Weekday())
	s.Equal(day(2025, 4, 6), days[len(days)-1].Date)
	s.False(days[0].InMonth)
	s.True(days[5].InMonth)

	var marked []int
	var today []int
	for _, d := range days {
		if d.HasEvent {
			marked = append(marked, d.Date.Day())
		}
		if d.Today {
			today = append(today, d.Date.Day())
		}
	}
	s.Equal([]int{4, 10, 22, 25, 30}, marked)
	s.Equal([]int{11}, today)
}

func (s *ServiceSuite) TestLoadEventsNormalizesDates() {
	svc := New(s.clock)
	svc.LoadEvents([]model.Event{
		{ID: 2, Title: "Later", Date: time.Date(2025, 3, 20, 15, 0, 0, 0, time.UTC)},
		{ID: 1, Title: "Sooner", Date: time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)},
	})

	events, err := svc.Upcoming(s.clock.Now(), 0)
	s.Require().NoError(err)
	s.Equal([]string{"Sooner", "Later"}, titles(events))
	s.True(svc.HasEvent(day(2025, 3, 20)))
}
