package cloud

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the entropy behind a session token. 24 bytes encode to
// exactly 32 base64 characters with no padding.
const tokenBytes = 24

// NewToken returns a fresh opaque session token: 24 random bytes encoded
// with URL-safe base64.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("new token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}
