package dto

import "strings"

// RegisterRequest 註冊帳號；email 會轉小寫後存入
// swagger:model dto.RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255" example:"Alice"`
	Email    string `json:"email" validate:"required,min=7,max=255,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=8,max=255" example:"Secret123!"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}
