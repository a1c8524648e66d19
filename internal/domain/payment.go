package domain

import "time"

// Payment records a successful gateway charge. Amount is in minor units.
type Payment struct {
	ID        string    `json:"id"`
	ChargeID  string    `json:"charge_id"`
	UserID    string    `json:"user_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Option    string    `json:"option"`
	CreatedAt time.Time `json:"created_at"`
}

// CurrencyEUR is the only currency the storefront charges in.
const CurrencyEUR = "eur"

// Payment option constants for checkout.
const (
	PaymentOptionStripe = "stripe"
	PaymentOptionPaypal = "paypal"
)

// IsValidPaymentOption checks if a payment option string is valid.
func IsValidPaymentOption(opt string) bool {
	return opt == PaymentOptionStripe || opt == PaymentOptionPaypal
}
