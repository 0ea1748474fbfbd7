package calendar

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/elevate/internal/dependencies/clock"
	"github.com/mcoot/elevate/internal/model"
)

// UpcomingLimit is the number of upcoming events shown on the dashboard
const UpcomingLimit = 1

// eventRecord is the on-disk shape of an event
type eventRecord struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	ClubID      int64  `yaml:"clubId,omitempty"`
}

type eventFile struct {
	Events []eventRecord `yaml:"events"`
}

// Day is one cell of a month grid
type Day struct {
	Date     time.Time
	InMonth  bool
	HasEvent bool
	Today    bool
}

// Service serves calendar events. Dates are calendar days with no time of
// day; all comparisons happen on whole days.
type Service struct {
	clock clock.Clock

	mu     sync.RWMutex
	events []model.Event // sorted by date, then id
	byDay  map[string][]model.Event
	loaded bool
}

// New creates a new calendar Service
func New(clk clock.Clock) *Service {
	return &Service{
		clock: clk,
		byDay: make(map[string][]model.Event),
	}
}

// LoadFromFile loads events from a YAML file
func (s *Service) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.Load(file)
}

// Load parses events from YAML and replaces the loaded set
func (s *Service) Load(r io.Reader) error {
	var f eventFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return fmt.Errorf("failed to parse events: %w", err)
	}

	events := make([]model.Event, 0, len(f.Events))
	for _, rec := range f.Events {
		date, err := time.Parse(time.DateOnly, rec.Date)
		if err != nil {
			return fmt.Errorf("event %d: invalid date %q: %w", rec.ID, rec.Date, err)
		}
		events = append(events, model.Event{
			ID:          rec.ID,
			Title:       rec.Title,
			Date:        date,
			Description: rec.Description,
			ClubID:      model.ClubID(rec.ClubID),
		})
	}
	s.setEvents(events)
	return nil
}

// LoadEvents replaces the loaded set with events
func (s *Service) LoadEvents(events []model.Event) {
	normalized := make([]model.Event, len(events))
	for i, e := range events {
		e.Date = dayOf(e.Date)
		normalized[i] = e
	}
	s.setEvents(normalized)
}

func (s *Service) setEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].ID < events[j].ID
	})

	byDay := make(map[string][]model.Event)
	for _, e := range events {
		key := e.Date.Format(time.DateOnly)
		byDay[key] = append(byDay[key], e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.byDay = byDay
	s.loaded = true
}

// IsLoaded returns whether events have been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Count returns the number of loaded events
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Upcoming returns up to limit events dated today or later, soonest first.
// A limit of zero or less returns every upcoming event.
func (s *Service) Upcoming(now time.Time, limit int) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, model.ErrEventsNotLoaded
	}

	today := dayOf(now)
	var out []model.Event
	for _, e := range s.events {
		if e.Date.Before(today) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// UpcomingToday is Upcoming relative to the service clock
func (s *Service) UpcomingToday(limit int) ([]model.Event, error) {
	return s.Upcoming(s.clock.Now(), limit)
}

// On returns the events on the given day
func (s *Service) On(date time.Time) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, model.ErrEventsNotLoaded
	}
	events := s.byDay[dayOf(date).Format(time.DateOnly)]
	return append([]model.Event(nil), events...), nil
}

// HasEvent reports whether any event falls on the given day
func (s *Service) HasEvent(date time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byDay[dayOf(date).Format(time.DateOnly)]) > 0
}

// Month returns the grid for a month as whole weeks, Monday first. Days
// outside the month pad the first and last week.
func (s *Service) Month(year int, month time.Month) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	today := dayOf(s.clock.Now())

	// Monday = 0 ... Sunday = 6
	lead := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -lead)

	last := first.AddDate(0, 1, -1)
	trail := (7 - (int(last.Weekday())+6)%7 - 1)
	end := last.AddDate(0, 0, trail)

	var days []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, Day{
			Date:     d,
			InMonth:  d.Month() == month,
			HasEvent: s.HasEvent(d),
			Today:    d.Equal(today),
		})
	}
	return days
}

// dayOf returns the calendar day of t as midnight UTC
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
