package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, so they double
// as primary keys in PostgreSQL and DynamoDB and keep S3 keys ordered.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
