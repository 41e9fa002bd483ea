package tool

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateInviteToken returns a 32-byte random token in hex.
func GenerateInviteToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
