// Package refcode generates order reference codes: short opaque identifiers
// safe to share with customers and payment processors.
package refcode

import (
	"crypto/rand"
	"fmt"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// Length is the number of characters in a reference code.
	Length = 20
)

// New returns a random reference code of Length lowercase letters and digits.
func New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reference code: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
