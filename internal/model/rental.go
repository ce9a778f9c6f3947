package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const day = 24 * time.Hour

// Rental 在 DateReturned 為 nil 時為未歸還狀態；歸還後不可再變更
type Rental struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	Customer     CustomerSnapshot `db:"customer" json:"customer"`
	Movie        MovieSnapshot    `db:"movie" json:"movie"`
	DateOut      time.Time        `db:"date_out" json:"dateOut"`
	DateReturned *time.Time       `db:"date_returned" json:"dateReturned,omitempty"`
	RentalFee    *float64         `db:"rental_fee" json:"rentalFee,omitempty"`
}

func (r Rental) IsOpen() bool {
	return r.DateReturned == nil
}

// DaysOut rounds the elapsed time to whole days.
func (r Rental) DaysOut(now time.Time) int {
	return int(math.Round(float64(now.Sub(r.DateOut)) / float64(day)))
}

// Fee charges at least one day.
func (r Rental) Fee(now time.Time) float64 {
	if days := r.DaysOut(now); days > 0 {
		return float64(days) * r.Movie.DailyRentalRate
	}
	return r.Movie.DailyRentalRate
}

// CheckIn 設定歸還時間與費用；呼叫前需確認 IsOpen
func (r *Rental) CheckIn(now time.Time) {
	fee := r.Fee(now)
	r.DateReturned = &now
	r.RentalFee = &fee
}
