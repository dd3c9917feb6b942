package domain

import "time"

// Verification purposes. At most one live entry exists per (account, purpose).
const (
	PurposeMobile = "mobile"
	PurposeEmail  = "email"
)

// Verification is a one-time secret awaiting proof of control of a phone or mailbox.
// ExpiresAt is a Unix timestamp; the DynamoDB backend also uses it as the table TTL.
type Verification struct {
	AccountID string `json:"account_id" dynamodbav:"account_id"`
	Purpose   string `json:"purpose" dynamodbav:"purpose"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}

// Expired reports whether now is past the stored expiry.
func (v *Verification) Expired(now time.Time) bool {
	return now.Unix() > v.ExpiresAt
}
