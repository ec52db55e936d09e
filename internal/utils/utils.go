package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// GenerateReferralCode creates a referral code of the given length.
// Uniqueness is owned by the referral_code unique constraint; callers
// retry on conflict rather than pre-checking.
func GenerateReferralCode(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)

	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}

	return string(result)
}

// GenerateJobID creates a human-facing job display ID in the form
// JOB-ID-NNNNN. The five-digit draw can collide; callers retry against
// the unique constraint.
func GenerateJobID() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(90000))
	return fmt.Sprintf("JOB-ID-%d", 10000+n.Int64())
}

// GenerateSecureToken generates an opaque hex token with byteLen bytes
// of entropy, used for email verification and password reset.
func GenerateSecureToken(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// HumanizePostedAgo renders how long ago a posting was created:
// under an hour in minutes, under a day in hours, days otherwise.
func HumanizePostedAgo(createdAt, now time.Time) string {
	minutes := int(now.Sub(createdAt).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%d hours ago", minutes/60)
	default:
		return fmt.Sprintf("%d days ago", minutes/1440)
	}
}
