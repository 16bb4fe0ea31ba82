package dto

import "github.com/hongminglow/all-in-auth/internal/models"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User    models.Identity `json:"user"`
	Expires string          `json:"expires"`
}
