// Package passhash wraps bcrypt into a hash/verify pair with a fixed cost.
package passhash

import "golang.org/x/crypto/bcrypt"

const cost = 12

// Hash produces a salted bcrypt digest. The salt is random, so hashing the
// same plaintext twice yields different digests.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. Malformed digests
// verify as false; this never panics.
func Verify(plaintext string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
