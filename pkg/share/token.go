package share

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes gives 128 bits of entropy, encoding to 22 base64url characters.
const tokenBytes = 16

// NewToken generates an opaque, URL-safe share token from a
// cryptographically secure random source.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
