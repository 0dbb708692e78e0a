// Package credentials derives and verifies salted password hashes.
package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 16
	keyLength  = 32
	iterations = 100_000
)

// Hash derives a salted PBKDF2-SHA256 hash for the plaintext. Every call
// draws a fresh random salt, so hashing the same plaintext twice yields
// different results.
func Hash(plaintext string) (hash string, salt []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", nil, fmt.Errorf("generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plaintext), salt, iterations, keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key), salt, nil
}

// Verify recomputes the derivation with the stored salt and compares it
// against the stored hash in constant time. Malformed stored values report
// a failed verification rather than an error.
func Verify(plaintext, hash string, salt []byte) bool {
	if hash == "" || len(salt) == 0 {
		return false
	}
	stored, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false
	}
	key := pbkdf2.Key([]byte(plaintext), salt, iterations, keyLength, sha256.New)
	return subtle.ConstantTimeCompare(stored, key) == 1
}
