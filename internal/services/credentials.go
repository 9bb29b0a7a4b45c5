package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/mtakagi/body-tracker-api/internal/constants"
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordMismatch = errors.New("passwords do not match")

	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// dummyPasswordHash is a bcrypt hash of an unguessable throwaway value. Login
// compares against it when the username does not exist so that the work done
// is the same for "unknown user" and "wrong password".
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword derives the stored credential from a plaintext. The plaintext
// itself is never persisted or logged.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}

// verifyPassword reports whether plaintext matches the stored hash. It never
// returns an error to the caller; any mismatch or malformed hash is false.
func verifyPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// ValidateNewPassword enforces the confirmation match and the minimum-length
// policy for any path that sets a credential, the CLIs included.
func ValidateNewPassword(plaintext, confirm string) error {
	if plaintext != confirm {
		return ErrPasswordMismatch
	}
	if len(plaintext) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
