package model

import "github.com/google/uuid"

// Movie.Genre 是建立或更新當下的 genre 複本，之後 genre 改名不會同步
type Movie struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Genre           Genre     `db:"genre" json:"genre"`
	NumberInStock   int       `db:"number_in_stock" json:"numberInStock"`
	DailyRentalRate float64   `db:"daily_rental_rate" json:"dailyRentalRate"`
}

// MovieSnapshot 是租借時嵌入 Rental 的電影欄位
type MovieSnapshot struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	DailyRentalRate float64   `json:"dailyRentalRate"`
}

func (m Movie) Snapshot() MovieSnapshot {
	return MovieSnapshot{ID: m.ID, Title: m.Title, DailyRentalRate: m.DailyRentalRate}
}
