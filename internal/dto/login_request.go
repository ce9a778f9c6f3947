package dto

import "strings"

// swagger:model dto.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" validate:"required,min=7,max=255,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=8,max=255" example:"Secret123!"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}
