package domain

import "time"

// PhoneVerification holds the single outstanding SMS code for a phone number.
// PK: phone_number; a new request replaces the previous row wholesale.
// ExpiresAt is a Unix timestamp doubling as the DynamoDB TTL attribute;
// reads must still apply the expiry check because TTL deletion is lazy.
type PhoneVerification struct {
	PhoneNumber string    `json:"phone_number" dynamodbav:"phone_number"`
	CountryCode string    `json:"country_code" dynamodbav:"country_code"`
	Code        string    `json:"-" dynamodbav:"code"`
	MessageID   string    `json:"message_id,omitempty" dynamodbav:"message_id"`
	Attempts    int       `json:"attempts" dynamodbav:"attempts"`
	MaxAttempts int       `json:"max_attempts" dynamodbav:"max_attempts"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt   int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// Expired reports whether the code is past its expiry at the given instant.
func (v *PhoneVerification) Expired(now time.Time) bool {
	return now.Unix() > v.ExpiresAt
}

// Exhausted reports whether the attempt budget has been spent.
func (v *PhoneVerification) Exhausted() bool {
	return v.Attempts >= v.MaxAttempts
}
