// go-utils/hash.go

package utils

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashToken is the storage form of a secret the server hands out once
// (master key codes). The raw value is never persisted.
func HashToken(raw string) string {
	hasher := sha256.New()
	hasher.Write([]byte(raw))
	return base64.URLEncoding.EncodeToString(hasher.Sum(nil))
}
