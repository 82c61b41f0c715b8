// Package token provides session-token generation for the Galaxy store.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Size is the number of random bytes in a session token.
// 32 bytes yields a 64-character hex token.
const Size = 32

// New generates a random session token as a hex string.
func New() (string, error) {
	buf := make([]byte, Size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
