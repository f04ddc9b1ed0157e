// Package otp generates numeric one-time verification codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the number of digits in a generated code.
const CodeLength = 6

// Generate returns a uniformly random 6-digit code in [100000, 999999].
// Codes below 100000 are never produced, so the string is always exactly
// six digits without zero-padding.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
