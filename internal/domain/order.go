package domain

import "time"

// Order represents a customer's cart (ordered=false) or a placed order
// (ordered=true). Each user has at most one active order at a time.
type Order struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	Items             []OrderItem `json:"items"`
	ShippingAddressID string      `json:"shipping_address_id,omitempty"`
	BillingAddressID  string      `json:"billing_address_id,omitempty"`
	Coupon            *Coupon     `json:"coupon,omitempty"`
	PaymentID         string      `json:"payment_id,omitempty"`
	Ordered           bool        `json:"ordered"`
	OrderedAt         *time.Time  `json:"ordered_at,omitempty"`
	RefCode           string      `json:"ref_code,omitempty"`
	RefundRequested   bool        `json:"refund_requested"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// Subtotal returns the sum of all line totals.
func (o *Order) Subtotal() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].LineTotal()
	}
	return total
}

// Total returns the subtotal minus any coupon discount, floored at zero.
func (o *Order) Total() int64 {
	total := o.Subtotal()
	if o.Coupon != nil {
		total -= o.Coupon.Amount
	}
	if total < 0 {
		return 0
	}
	return total
}

// FindItem returns the line for the given catalog item ID, or nil.
func (o *Order) FindItem(itemID string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ItemID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// IsEmpty reports whether the order has no lines.
func (o *Order) IsEmpty() bool {
	return len(o.Items) == 0
}
