// Package password wraps bcrypt hashing so the rest of the codebase never
// touches crypto primitives directly.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt digest of plaintext using the default cost.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("password hash: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hash. A malformed hash and a wrong
// password are indistinguishable to the caller: both return false.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
