// Package otpcode generates short-lived numeric verification codes.
//
// Unlike TOTP, these codes are random, stored server-side, and delivered
// out-of-band (email/SMS). Validity is decided by the verification module,
// not by this package.
package otpcode

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Generator produces numeric one-time codes.
type Generator interface {
	// Generate returns a random numeric code of the configured length.
	Generate() (string, error)
}

// Numeric generates cryptographically random digit strings.
//
// Leading zeros are kept, so a 6-digit code is always exactly 6 characters.
type Numeric struct {
	length int
}

// NewNumeric returns a generator producing codes of the given length.
// A non-positive length falls back to 6 digits.
func NewNumeric(length int) *Numeric {
	if length <= 0 {
		length = 6
	}

	return &Numeric{length: length}
}

// Generate returns a random numeric code.
func (n *Numeric) Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(n.length)

	for i := 0; i < n.length; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}

	return sb.String(), nil
}
