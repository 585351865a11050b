package dto

// UserPublic is the outward projection of a user.
type UserPublic struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ProfileResponse is the authenticated user's profile with their cars and
// the reports they filed.
type ProfileResponse struct {
	UserPublic
	Cars    []CarResponse    `json:"cars"`
	Reports []ReportResponse `json:"reports"`
}
