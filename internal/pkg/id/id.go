package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID string. Every entity key in the app is a ULID;
// the messages table additionally relies on their creation-time ordering
// for its sort key.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
