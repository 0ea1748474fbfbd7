package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/elevate/internal/model"
)

func newClubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "Club catalogue commands",
	}

	cmd.AddCommand(newClubsListCmd())
	cmd.AddCommand(newClubsJoinCmd())
	cmd.AddCommand(newClubsAnnouncementsCmd())

	return cmd
}

func newClubsListCmd() *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every club, or only yours with --mine",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}

			var clubs []model.Club
			if mine {
				profile, err := currentProfile(cmd)
				if err != nil {
					return err
				}
				clubs = profile.Clubs()
			} else {
				var err error
				clubs, err = client.FetchAllClubs(cmd.Context())
				if err != nil {
					return describe(err)
				}
			}

			newOutput(cmd).Print(clubs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&mine, "mine", false, "Only clubs you belong to")

	return cmd
}

func newClubsJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join CLUB_NAME",
		Short: "Request to join a club",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			return requestJoin(cmd, strings.Join(args, " "))
		},
	}
}

// requestJoin files a join request and reports the resulting button state
func requestJoin(cmd *cobra.Command, clubName string) error {
	clubName = strings.TrimSpace(clubName)
	if clubName == "" {
		return fmt.Errorf("club name is required")
	}

	if err := client.RequestToJoinClub(cmd.Context(), clubName); err != nil {
		return fmt.Errorf("failed to send request to %s: %w", clubName, describe(err))
	}

	newOutput(cmd).Print(JoinResult{ClubName: clubName, State: model.JoinStateSent})
	return nil
}

func newClubsAnnouncementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "announcements CLUB_ID",
		Short: "Show a club's announcements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid club id %q", args[0])
			}

			announcements, err := client.FetchAnnouncements(cmd.Context(), model.ClubID(id))
			if err != nil {
				return describe(err)
			}

			newOutput(cmd).Print(announcements)
			return nil
		},
	}
}

// currentProfile resolves the logged in user from the token
func currentProfile(cmd *cobra.Command) (*model.UserProfile, error) {
	email, err := tokenEmail(cfg.Token)
	if err != nil {
		return nil, err
	}
	profile, err := lookupProfile(cmd.Context(), email)
	if err != nil {
		return nil, describe(err)
	}
	return profile, nil
}
