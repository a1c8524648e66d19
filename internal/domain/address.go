package domain

import "time"

// Address type constants.
const (
	AddressTypeShipping = "shipping"
	AddressTypeBilling  = "billing"
)

// Address represents a saved customer address.
type Address struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	StreetAddress    string    `json:"street_address"`
	ApartmentAddress string    `json:"apartment_address,omitempty"`
	CountryCode      string    `json:"country_code"`
	PostalCode       string    `json:"postal_code"`
	Type             string    `json:"address_type"`
	Default          bool      `json:"default"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsValidAddressType checks if a type string is valid.
func IsValidAddressType(t string) bool {
	return t == AddressTypeShipping || t == AddressTypeBilling
}
