package domain

import "time"

// Profile holds per-user payment preferences. GatewayCustomerID is the
// customer reference at the payment provider, set once the user saves a
// payment source.
type Profile struct {
	UserID             string    `json:"user_id"`
	GatewayCustomerID  string    `json:"gateway_customer_id,omitempty"`
	OneClickPurchasing bool      `json:"one_click_purchasing"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CanOneClickPurchase reports whether the user can pay with a stored source.
func (p *Profile) CanOneClickPurchase() bool {
	return p.OneClickPurchasing && p.GatewayCustomerID != ""
}
