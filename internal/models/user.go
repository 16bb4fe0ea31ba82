package models

import "time"

// User is a record held by the user directory.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the minimal projection of a user returned by a successful login.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IdentityOf projects u onto an Identity.
func IdentityOf(u User) Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}
