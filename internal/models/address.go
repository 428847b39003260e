package models

import "time"

type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Receiver  string    `json:"receiver"`
	Phone     string    `json:"phone"`
	Province  string    `json:"province"`
	City      string    `json:"city"`
	District  string    `json:"district"`
	Detail    string    `json:"detail"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
