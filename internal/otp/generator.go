package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeSpan covers the inclusive range [100000, 999999] so every code is
// exactly six decimal digits.
const (
	codeMin  = 100000
	codeSpan = 900000
)

// Generate returns a uniformly random 6-digit code from a cryptographically
// secure source. An entropy failure is returned as-is; callers treat it as
// fatal for the request rather than retrying.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
