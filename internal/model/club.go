package model

// ClubID identifies a club in the club backend
type ClubID int64

// Club is a club as returned by the backend. Member clubs carry Image as
// base64 bytes; the public catalogue carries ImageURL instead.
type Club struct {
	ClubID             ClubID `json:"clubId"`
	ClubName           string `json:"clubName"`
	Description        string `json:"description"`
	NoOfMembers        int    `json:"noOfMembers"`
	AvailableSlots     int    `json:"availableSlots,omitempty"`
	TotalSlots         int    `json:"totalSlots,omitempty"`
	Image              string `json:"image,omitempty"`
	ImageURL           string `json:"imageUrl,omitempty"`
	ClubAdminFirstName string `json:"clubAdminFirstName,omitempty"`
	ClubAdminLastName  string `json:"clubAdminLastName,omitempty"`
}

// RequestStatus is the backend status of a club join request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// ClubRequest is a request by a user to join a club
type ClubRequest struct {
	UserID        UserID        `json:"userId"`
	ClubID        ClubID        `json:"clubId"`
	ClubName      string        `json:"clubName"`
	RequestStatus RequestStatus `json:"requestStatus"`
	Comment       string        `json:"comment,omitempty"`
	CreatedAt     string        `json:"createdAt,omitempty"`
	UpdatedAt     string        `json:"updatedAt,omitempty"`
}

// Announcement is a post made to a club
type Announcement struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Type      string       `json:"type"`
	CreatedAt string       `json:"createdAt,omitempty"`
	PostedBy  *UserProfile `json:"postedBy,omitempty"`
}
