package domain

import "time"

// Refund is an append-only refund request against a placed order.
type Refund struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	RefCode   string    `json:"ref_code"`
	Reason    string    `json:"reason"`
	Email     string    `json:"email"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}
