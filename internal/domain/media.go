package domain

import "time"

// Media kinds accepted for company branding.
const (
	MediaLogo   = "logo"
	MediaBanner = "banner"
)

// Media records an image stored in object storage on behalf of an account.
type Media struct {
	MediaID     string `json:"id" dynamodbav:"media_id"`
	OwnerID     string `json:"owner_id" dynamodbav:"owner_id"`
	Kind        string `json:"kind" dynamodbav:"kind"`
	Object      string `json:"object" dynamodbav:"object"`
	URL         string `json:"url" dynamodbav:"url"`
	Size        int64  `json:"size" dynamodbav:"size"`
	ContentType string `json:"content_type" dynamodbav:"content_type"`
	Hash        string `json:"hash" dynamodbav:"hash"`

	// Current is false once a newer upload of the same kind replaced it.
	Current      bool       `json:"current" dynamodbav:"current"`
	CreatedAt    time.Time  `json:"created_at" dynamodbav:"created_at"`
	SupersededAt *time.Time `json:"superseded_at,omitempty" dynamodbav:"superseded_at,omitempty"`
}
