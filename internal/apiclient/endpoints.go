package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mcoot/elevate/internal/model"
)

// LoginResponse is the body returned by a successful login
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateUser registers a new account
func (c *Client) CreateUser(ctx context.Context, user model.NewUser) error {
	res := c.Call(ctx, "/api/user", http.MethodPost, user, false)
	if res.Err != nil {
		return res.Err
	}
	return nil
}

// UserAuth logs in and, on success, persists the issued token. This is the
// only place a credential is ever written.
func (c *Client) UserAuth(ctx context.Context, creds model.Credentials) (*LoginResponse, error) {
	res := c.Call(ctx, "/auth/login", http.MethodPost, creds, false)

	var out LoginResponse
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		err := newError(KindMalformed, res.Status, "login response carried no token")
		c.logger.Warn("api call failed",
			slog.String("method", http.MethodPost),
			slog.String("path", "/auth/login"),
			slog.String("kind", string(err.Kind)),
			slog.String("error", err.Message),
		)
		return nil, err
	}

	if c.credentials != nil {
		if err := c.credentials.SaveToken(ctx, out.Token); err != nil {
			return nil, newError(KindTransport, res.Status, fmt.Sprintf("failed to persist credential: %v", err))
		}
	}

	return &out, nil
}

// FetchUserData looks up users by email. The backend matches on prefix, so
// the result may hold more than one profile.
func (c *Client) FetchUserData(ctx context.Context, email string) ([]model.UserProfile, error) {
	path := "/student/users/email?email=" + url.QueryEscape(email)
	return decodeData[[]model.UserProfile](c.Call(ctx, path, http.MethodGet, nil, true))
}

// FetchUserClubRequests lists the join requests made by a user
func (c *Client) FetchUserClubRequests(ctx context.Context, userID model.UserID) ([]model.ClubRequest, error) {
	path := fmt.Sprintf("/student/club-requests/user/%d", userID)
	return decodeData[[]model.ClubRequest](c.Call(ctx, path, http.MethodGet, nil, true))
}

// FetchAllClubs lists every club in the catalogue
func (c *Client) FetchAllClubs(ctx context.Context) ([]model.Club, error) {
	return decodeData[[]model.Club](c.Call(ctx, "/student/clubs", http.MethodGet, nil, true))
}

// RequestToJoinClub files a join request for the named club
func (c *Client) RequestToJoinClub(ctx context.Context, clubName string) error {
	body := map[string]string{"clubName": clubName}
	res := c.Call(ctx, "/api/club-requests", http.MethodPost, body, true)
	if res.Err != nil {
		return res.Err
	}
	return nil
}

// FetchAnnouncements lists announcements posted to a club
func (c *Client) FetchAnnouncements(ctx context.Context, clubID model.ClubID) ([]model.Announcement, error) {
	path := fmt.Sprintf("/api/announcements/%d", clubID)
	return decodeData[[]model.Announcement](c.Call(ctx, path, http.MethodGet, nil, true))
}
