package model

import "github.com/google/uuid"

type Customer struct {
	ID     uuid.UUID `db:"id" json:"id"`
	Name   string    `db:"name" json:"name"`
	Phone  string    `db:"phone" json:"phone"`
	IsGold bool      `db:"is_gold" json:"isGold"`
}

// CustomerSnapshot 是租借時嵌入 Rental 的顧客欄位
type CustomerSnapshot struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	IsGold bool      `json:"isGold"`
}

func (c Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{ID: c.ID, Name: c.Name, Phone: c.Phone, IsGold: c.IsGold}
}
