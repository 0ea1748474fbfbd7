package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/elevate/internal/dependencies/clock"
	"github.com/mcoot/elevate/internal/services/calendar"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Calendar event commands",
	}

	cmd.PersistentFlags().StringVar(&cfg.EventsFile, "events-file", cfg.EventsFile, "Events file (env: ELEVATE_EVENTS_FILE)")

	cmd.AddCommand(newEventsUpcomingCmd())
	cmd.AddCommand(newEventsOnCmd())

	return cmd
}

func loadCalendar() (*calendar.Service, error) {
	cal := calendar.New(clock.New())
	if err := cal.LoadFromFile(cfg.EventsFile); err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return cal, nil
}

func newEventsUpcomingCmd() *cobra.Command {
	var limit int
	var from string

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List events from today on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := loadCalendar()
			if err != nil {
				return err
			}

			now := time.Now()
			if from != "" {
				now, err = time.Parse(time.DateOnly, from)
				if err != nil {
					return fmt.Errorf("invalid --from %q: want YYYY-MM-DD", from)
				}
			}

			events, err := cal.Upcoming(now, limit)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(events)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", calendar.UpcomingLimit, "Maximum number of events, 0 for all")
	cmd.Flags().StringVar(&from, "from", "", "Start date as YYYY-MM-DD (default today)")

	return cmd
}

func newEventsOnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "on DATE",
		Short: "List events on a day (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse(time.DateOnly, args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[0])
			}

			cal, err := loadCalendar()
			if err != nil {
				return err
			}

			events, err := cal.On(date)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(events)
			return nil
		},
	}
}
