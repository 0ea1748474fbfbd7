package model

// UserID identifies a user in the club backend
type UserID int64

// Role is the backend role of a user
type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleClubAdmin Role = "CLUB_ADMIN"
	RoleAdmin     Role = "ADMIN"
)

// UserProfile is the authenticated user's profile as returned by the backend.
// The client treats it as opaque beyond display.
type UserProfile struct {
	UserID      UserID     `json:"userId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	Birthday    string     `json:"birthday,omitempty"`
	JoinedClubs int        `json:"joinedClubs"`
	UserClubs   []UserClub `json:"userClubs,omitempty"`
}

// Clubs returns the clubs wrapped by the profile's memberships, in order
func (p *UserProfile) Clubs() []Club {
	clubs := make([]Club, 0, len(p.UserClubs))
	for _, uc := range p.UserClubs {
		clubs = append(clubs, uc.Club)
	}
	return clubs
}

// UserClub links a user to a club they belong to
type UserClub struct {
	ID         int64  `json:"id"`
	Club       Club   `json:"club"`
	Comment    string `json:"comment,omitempty"`
	JoinedDate string `json:"joinedDate,omitempty"`
}

// NewUser is the signup payload sent to the backend
type NewUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Role      Role   `json:"role"`
	Birthday  string `json:"birthday"`
}

// Credentials are the login form values
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
