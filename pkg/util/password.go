package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const hashCost = 12

// ErrPasswordTooLong is returned for credentials beyond bcrypt's 72-byte
// input limit, which bcrypt would otherwise truncate.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword hashes an admin credential with bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plain credential matches the stored
// bcrypt hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
