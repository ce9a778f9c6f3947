package dto

import (
	"time"

	"vidly/internal/model"

	"github.com/google/uuid"
)

// RegisterResponse 只帶公開欄位，token 放在 x-auth-token header
// swagger:model dto.RegisterResponse
type RegisterResponse struct {
	ID    uuid.UUID `json:"id" example:"0b7a4c2e-6d1f-4c1e-9a55-3f0c2b8d9e11"`
	Name  string    `json:"name" example:"Alice"`
	Email string    `json:"email" example:"alice@example.com"`
}

// swagger:model dto.UserResponse
type UserResponse struct {
	ID        uuid.UUID `json:"id" example:"0b7a4c2e-6d1f-4c1e-9a55-3f0c2b8d9e11"`
	Name      string    `json:"name" example:"Alice"`
	Email     string    `json:"email" example:"alice@example.com"`
	IsAdmin   bool      `json:"isAdmin" example:"false"`
	CreatedAt time.Time `json:"createdAt" example:"2025-05-01T15:04:05Z"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}
