package helper

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OtpTTL is how long a verification code stays redeemable.
const OtpTTL = 10 * time.Minute

// GenerateOtp returns a uniformly random 6-digit code (zero-padded) and
// its absolute expiry in epoch milliseconds.
func GenerateOtp() (string, int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate otp: %w", err)
	}

	code := fmt.Sprintf("%06d", n.Int64())
	expireAt := time.Now().Add(OtpTTL).UnixMilli()

	return code, expireAt, nil
}
