package dto

import (
	"time"

	"wego/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type AdminResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Message string        `json:"message"`
	Admin   AdminResponse `json:"admin"`
}

func NewAuthResponse(message string, a domain.Admin) AuthResponse {
	return AuthResponse{
		Message: message,
		Admin: AdminResponse{
			ID:        a.ID,
			Email:     a.Email,
			Name:      a.Name,
			CreatedAt: a.CreatedAt,
		},
	}
}
