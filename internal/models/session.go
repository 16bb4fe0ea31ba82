package models

import "time"

// SessionUser is the user view exposed through a session. It never carries
// the password hash.
type SessionUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Image     string     `json:"image,omitempty"`
	Role      string     `json:"role,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Session is the server-issued session view.
type Session struct {
	User    SessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

// SessionFromIdentity seeds a session from token contents.
func SessionFromIdentity(id Identity, expires time.Time) Session {
	return Session{
		User:    SessionUser{ID: id.ID, Email: id.Email, Name: id.Name},
		Expires: expires,
	}
}
