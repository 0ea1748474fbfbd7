package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/elevate/internal/view"
)

func newRequestsCmd() *cobra.Command {
	var pending bool

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List your join requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}

			profile, err := currentProfile(cmd)
			if err != nil {
				return err
			}

			requests, err := client.FetchUserClubRequests(cmd.Context(), profile.UserID)
			if err != nil {
				return describe(err)
			}
			if pending {
				requests = view.PendingRequests(requests)
			}

			newOutput(cmd).Print(requests)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Only requests awaiting a decision")
	cmd.AddCommand(newRequestsReapplyCmd())

	return cmd
}

func newRequestsReapplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reapply CLUB_NAME",
		Short: "Send a new request for a rejected club",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			return requestJoin(cmd, strings.Join(args, " "))
		},
	}
}
