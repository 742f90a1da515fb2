package otp

import "time"

// Record is a pending one-time password bound to a phone number. At most one
// live record exists per phone; a resend overwrites it.
type Record struct {
	Code      string    `json:"otp"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Verification marks that an OTP was verified for a phone number within a
// trailing window. It gates registration and PIN reset, and is consumed
// (deleted) by the first operation that uses it.
type Verification struct {
	VerifiedAt time.Time `json:"verifiedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
