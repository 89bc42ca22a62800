package otp

import (
	"crypto/rand"
	"math/big"
)

// Code generates a 6-digit verification code, uniform in [100000, 999999].
func Code() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 100000, nil
}
