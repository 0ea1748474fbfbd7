package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/mcoot/elevate/internal/apiclient"
	"github.com/mcoot/elevate/internal/dependencies/clock"
	"github.com/mcoot/elevate/internal/dependencies/ids"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/services/auth"
	"github.com/mcoot/elevate/internal/storage/memory"
	"github.com/mcoot/elevate/internal/view"
)

func newSignupCmd() *cobra.Command {
	var user model.NewUser

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new student account",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Signup shares validation with the web form; no session is involved
			svc := auth.New(memory.New(), client, clock.New(), ids.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))

			if err := svc.Signup(cmd.Context(), user); err != nil {
				var fieldErrors auth.ValidationErrors
				if errors.As(err, &fieldErrors) {
					return fmt.Errorf("invalid signup: %s", formatFieldErrors(fieldErrors))
				}
				return fmt.Errorf("signup failed: %w", err)
			}

			newOutput(cmd).PrintMessage("Signup successful! Please log in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&user.FirstName, "first-name", "", "First name (required)")
	cmd.Flags().StringVar(&user.LastName, "last-name", "", "Last name (required)")
	cmd.Flags().StringVar(&user.Email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&user.Password, "pass", "", "Password, at least 8 characters (required)")
	cmd.Flags().StringVar(&user.Phone, "phone", "", "Phone number (required)")
	cmd.Flags().StringVar(&user.Address, "address", "", "Address (required)")
	cmd.Flags().StringVar(&user.Birthday, "birthday", "", "Birthday as YYYY-MM-DD (required)")
	for _, name := range []string{"first-name", "last-name", "email", "pass", "phone", "address", "birthday"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func formatFieldErrors(fieldErrors auth.ValidationErrors) string {
	parts := make([]string, 0, len(fieldErrors))
	for _, field := range slices.Sorted(maps.Keys(fieldErrors)) {
		parts = append(parts, field+": "+fieldErrors[field])
	}
	return strings.Join(parts, "; ")
}

func newLoginCmd() *cobra.Command {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" || pass == "" {
				return fmt.Errorf("--email and --pass are required")
			}

			// UserAuth saves the token through the token file store
			if _, err := client.UserAuth(cmd.Context(), model.Credentials{Email: email, Password: pass}); err != nil {
				if apiErr, ok := apiclient.AsError(err); ok && (apiErr.Kind == apiclient.KindUnauthorized || apiErr.Status == 404) {
					return errors.New("invalid email or password")
				}
				return fmt.Errorf("login failed: %w", err)
			}

			profile, err := lookupProfile(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("error fetching user data: %w", err)
			}

			clubs := profile.Clubs()
			newOutput(cmd).Print(LoginResult{
				User:      *profile,
				Clubs:     clubs,
				Dashboard: view.SelectDashboard(clubs),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			newOutput(cmd).PrintMessage("You have been logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}

			email, err := tokenEmail(cfg.Token)
			if err != nil {
				return err
			}

			profile, err := lookupProfile(cmd.Context(), email)
			if err != nil {
				return describe(err)
			}

			newOutput(cmd).Print(*profile)
			return nil
		},
	}
}

// tokenEmail reads the email the token was issued for. The signature is not
// checked; the backend does that on every call.
func tokenEmail(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("token is not a JWT: %w", err)
	}

	sub, err := claims.GetSubject()
	if err == nil && sub != "" {
		return sub, nil
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}
	return "", errors.New("token carries no subject")
}

// lookupProfile fetches the profile for email. The backend matches on
// prefix, so an exact match wins over the first result.
func lookupProfile(ctx context.Context, email string) (*model.UserProfile, error) {
	profiles, err := client.FetchUserData(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, model.ErrUserNotFound
	}
	for i := range profiles {
		if strings.EqualFold(profiles[i].Email, email) {
			return &profiles[i], nil
		}
	}
	return &profiles[0], nil
}
