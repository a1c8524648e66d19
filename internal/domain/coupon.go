package domain

import "time"

// Coupon represents a fixed-amount discount code. Amount is in minor units.
type Coupon struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
