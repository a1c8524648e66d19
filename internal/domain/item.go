package domain

import "time"

// Item represents a catalog entry. Prices are stored in minor units (cents).
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
