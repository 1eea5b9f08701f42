// Package auth provides the identity primitives of the server: one-way
// password hashing and signed bearer tokens.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the stored digests were produced with.
const bcryptCost = 10

// HashPassword returns a salted bcrypt digest of the plaintext. The random
// salt is embedded in the digest, so every call produces a different value.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches the bcrypt digest.
// Comparison inside bcrypt is constant-time; a malformed digest yields
// false, never a panic.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
