package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Room secrets and DM passwords live only as bcrypt hashes.
const (
	SecretHashCost         = 12
	DefaultMinSecretLength = 8
)

var ErrSecretTooShort = errors.New("secret too short")

// HashSecret hashes a room secret or DM password of at least minLength
// bytes. A non-positive minLength means DefaultMinSecretLength.
func HashSecret(secret string, minLength int) (string, error) {
	if minLength <= 0 {
		minLength = DefaultMinSecretLength
	}
	if len(secret) < minLength {
		return "", fmt.Errorf("%w: need at least %d characters", ErrSecretTooShort, minLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), SecretHashCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// SecretMatches reports whether secret is the plaintext behind hash.
func SecretMatches(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
