package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateOpaqueToken returns a 64-character unguessable hex string used
// for one-click action links.
func GenerateOpaqueToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
