package models

import "time"

// User represents a participant account in the system
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	OAuthProvider string    `json:"oauthProvider,omitempty"`
	OAuthSubject  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Participant holds the profile fields that tag a game result.
type Participant struct {
	UserID int64
	Name   string
	Email  string
	Age    int
}

// Anonymous participant defaults
const (
	GuestName  = "Guest"
	GuestEmail = "N/A"
)

// ParticipantFromUser builds the participant for a user, falling back to the
// anonymous defaults when there is no signed-in user.
func ParticipantFromUser(u *User) Participant {
	if u == nil {
		return Participant{Name: GuestName, Email: GuestEmail}
	}
	p := Participant{UserID: u.ID, Name: u.Name, Email: u.Email, Age: u.Age}
	if p.Name == "" {
		p.Name = GuestName
	}
	if p.Email == "" {
		p.Email = GuestEmail
	}
	return p
}
