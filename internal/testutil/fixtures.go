package testutil

import "github.com/mcoot/elevate/internal/model"

// Default login used across tests
const (
	TestEmail    = "user1@gmail.com"
	TestPassword = "12345678"
	TestToken    = "abc"
)

// ChessClub is a club the test user belongs to
func ChessClub() model.Club {
	return model.Club{
		ClubID:      1,
		ClubName:    "Chess Club",
		Description: "Weekly games and puzzles",
		NoOfMembers: 12,
		Image:       "aGVsbG8=",
	}
}

// CatalogueClubs is the public club list
func CatalogueClubs() []model.Club {
	return []model.Club{
		{ClubName: "Chess Club", Description: "Weekly games and puzzles", NoOfMembers: 12, ImageURL: "/img/chess.png"},
		{ClubName: "Drama Society", Description: "Plays every term", NoOfMembers: 30},
	}
}

// TestUser returns the profile of the default user with the given clubs
func TestUser(clubs ...model.Club) model.UserProfile {
	user := model.UserProfile{
		UserID:      13,
		FirstName:   "A",
		LastName:    "Student",
		Email:       TestEmail,
		Role:        model.RoleStudent,
		JoinedClubs: len(clubs),
	}
	for i, c := range clubs {
		user.UserClubs = append(user.UserClubs, model.UserClub{ID: int64(i + 1), Club: c})
	}
	return user
}

// SeedBackend adds the default user (with the given clubs) and the catalogue
func SeedBackend(b *Backend, clubs ...model.Club) {
	b.AddUser(TestUser(clubs...), TestPassword, TestToken)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Clubs = CatalogueClubs()
}
