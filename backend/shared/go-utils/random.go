// go-utils/random.go

package utils

import (
	"crypto/rand"
	"math/big"
)

// RandomNumericString generates a random string containing only digits.
// Pass access codes are six of these.
func RandomNumericString(length int) string {
	const digits = "0123456789"
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			panic(err)
		}
		b[i] = digits[num.Int64()]
	}
	return string(b)
}
