package dto

import "strings"

// GenreRequest 名稱會先去除前後空白再驗證，存入時轉小寫
// swagger:model dto.GenreRequest
type GenreRequest struct {
	Name string `json:"name" validate:"required,min=3,max=30" example:"comedy"`
}

// MovieRequest 的數值欄位用指標，才能區分「未提供」與 0
// swagger:model dto.MovieRequest
type MovieRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=100" example:"Airplane"`
	GenreID         string   `json:"genreId" validate:"required,uuid" example:"0b7a4c2e-6d1f-4c1e-9a55-3f0c2b8d9e11"`
	NumberInStock   *int     `json:"numberInStock" validate:"required,gte=0" example:"5"`
	DailyRentalRate *float64 `json:"dailyRentalRate" validate:"required,gte=0" example:"2"`
}

// swagger:model dto.CustomerRequest
type CustomerRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=255" example:"Sallie Smith"`
	Phone  string `json:"phone" validate:"required,min=7,max=255" example:"555-555-5555"`
	IsGold bool   `json:"isGold" example:"false"`
}

// RentalRequest 同時用於 checkout 與 return
// swagger:model dto.RentalRequest
type RentalRequest struct {
	CustomerID string `json:"customerId" validate:"required,uuid" example:"0b7a4c2e-6d1f-4c1e-9a55-3f0c2b8d9e11"`
	MovieID    string `json:"movieId" validate:"required,uuid" example:"5e3c1a9b-2f4d-4b8e-8c7a-1d2e3f4a5b6c"`
}

func (r *GenreRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *MovieRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.GenreID = strings.TrimSpace(r.GenreID)
}

func (r *CustomerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *RentalRequest) Normalize() {
	r.CustomerID = strings.TrimSpace(r.CustomerID)
	r.MovieID = strings.TrimSpace(r.MovieID)
}
