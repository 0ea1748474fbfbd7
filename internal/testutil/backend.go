package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/mcoot/elevate/internal/model"
)

// Backend is a fake club backend for tests. It serves the endpoints the
// client consumes from in-memory fixtures and records what it receives.
type Backend struct {
	*httptest.Server

	mu sync.Mutex

	// Fixtures
	Passwords     map[string]string // email -> password
	Tokens        map[string]string // email -> issued token
	Users         map[string]model.UserProfile
	Clubs         []model.Club
	Requests      map[model.UserID][]model.ClubRequest
	Announcements map[model.ClubID][]model.Announcement

	// Failure switches, keyed by "METHOD /path-prefix"
	Fail map[string]int

	// Recorded traffic
	AuthHeaders  map[string][]string // "METHOD path" -> Authorization headers seen
	CreatedUsers []model.NewUser
	JoinRequests []string
}

// NewBackend starts a fake backend that is closed with the test
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		Passwords:     make(map[string]string),
		Tokens:        make(map[string]string),
		Users:         make(map[string]model.UserProfile),
		Requests:      make(map[model.UserID][]model.ClubRequest),
		Announcements: make(map[model.ClubID][]model.Announcement),
		Fail:          make(map[string]int),
		AuthHeaders:   make(map[string][]string),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// AddUser registers a user that can log in
func (b *Backend) AddUser(user model.UserProfile, password, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Users[user.Email] = user
	b.Passwords[user.Email] = password
	b.Tokens[user.Email] = token
}

// FailWith makes every request matching "METHOD /path-prefix" answer status
func (b *Backend) FailWith(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Fail[route] = status
}

// Recover removes a failure switch
func (b *Backend) Recover(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Fail, route)
}

// AuthHeadersFor returns the Authorization headers seen for "METHOD path"
func (b *Backend) AuthHeadersFor(route string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.AuthHeaders[route]...)
}

// JoinRequestsSeen returns the club names join requests were filed for
func (b *Backend) JoinRequestsSeen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.JoinRequests...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	route := r.Method + " " + r.URL.Path
	b.AuthHeaders[route] = append(b.AuthHeaders[route], r.Header.Get("Authorization"))

	for prefix, status := range b.Fail {
		method, path, _ := strings.Cut(prefix, " ")
		if r.Method == method && strings.HasPrefix(r.URL.Path, path) {
			w.WriteHeader(status)
			_, _ = fmt.Fprintf(w, "forced failure %d", status)
			return
		}
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		b.login(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/user":
		var user model.NewUser
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, exists := b.Users[user.Email]; exists {
			w.WriteHeader(http.StatusConflict)
			writeJSON(w, map[string]any{"message": "Email already registered", "data": nil})
			return
		}
		b.CreatedUsers = append(b.CreatedUsers, user)
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"message": "User Registered Successfully", "data": user})
	case !b.authorized(r):
		w.WriteHeader(http.StatusUnauthorized)
	case r.Method == http.MethodGet && r.URL.Path == "/student/users/email":
		var data []model.UserProfile
		if user, ok := b.Users[r.URL.Query().Get("email")]; ok {
			data = append(data, user)
		}
		writeJSON(w, map[string]any{"message": "Successfully retrieved all users", "data": data})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/student/club-requests/user/"):
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/student/club-requests/user/"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"message": "Club requests fetched successfully", "data": b.Requests[model.UserID(id)]})
	case r.Method == http.MethodGet && r.URL.Path == "/student/clubs":
		writeJSON(w, map[string]any{"message": "Clubs retrieved successfully", "data": b.Clubs})
	case r.Method == http.MethodPost && r.URL.Path == "/api/club-requests":
		var body struct {
			ClubName string `json:"clubName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.JoinRequests = append(b.JoinRequests, body.ClubName)
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"message": "Club request created", "data": body})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/announcements/"):
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/announcements/"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"message": "Announcements fetched successfully", "data": b.Announcements[model.ClubID(id)]})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	password, ok := b.Passwords[creds.Email]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Email address not found."))
		return
	}
	if password != creds.Password {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Incorrect password! Please try again."))
		return
	}
	writeJSON(w, map[string]string{"token": b.Tokens[creds.Email]})
}

// authorized accepts any bearer token the backend has issued
func (b *Backend) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return false
	}
	for _, issued := range b.Tokens {
		if issued == token {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
