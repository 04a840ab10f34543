package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const EmailDomain = "@g.bracu.ac.bd"

const MinPasswordLength = 6

func IsValidEmail(email string) bool {
	return strings.HasSuffix(email, EmailDomain)
}

func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLength
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// TokensEqual compares shared secrets in constant time.
func TokensEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
