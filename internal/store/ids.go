package store

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

const (
	sessionIDLength  = 8
	adminKeyLength   = 16
	questionIDLength = 10
	passwordLength   = 4
)

// newID returns a short opaque id: a dash-stripped UUID truncated to length.
// Unique within the process lifetime for the lengths used here.
func newID(length int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if length < len(id) {
		id = id[:length]
	}
	return id
}

// newJoinPassword returns a short, human-enterable base64url secret.
func newJoinPassword() string {
	b := make([]byte, passwordLength)
	if _, err := rand.Read(b); err != nil {
		return newID(passwordLength)
	}
	return base64.RawURLEncoding.EncodeToString(b)[:passwordLength]
}
