// internal/app/system/authutil/authutil.go

// Package authutil provides password hashing and validation helpers shared by
// the registration, login, and password-reset flows.
package authutil

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password length limits. Bcrypt truncates input at 72 bytes, but we cap
// well above the minimum so passphrases are not rejected.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// Validation errors returned by ValidatePassword and ValidEmail callers.
var (
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordCommon   = errors.New("password is too common")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrEmailRequired    = errors.New("email is required")
)

// commonPasswords is a small denylist of the most frequently leaked
// passwords. Checked case-insensitively.
var commonPasswords = map[string]bool{
	"123456":   true,
	"password": true,
	"qwerty":   true,
	"abc123":   true,
	"iloveyou": true,
	"letmein":  true,
	"football": true,
	"welcome":  true,
	"monkey":   true,
	"dragon":   true,
}

// ValidatePassword checks a candidate password against length limits and the
// common-password denylist. Returns nil if the password is acceptable.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(pw) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(pw)] {
		return ErrPasswordCommon
	}
	return nil
}

// PasswordRules returns a human-readable description of the password
// requirements, suitable for API error details.
func PasswordRules() string {
	return fmt.Sprintf("Password must be %d-%d characters and not a commonly used password.",
		MinPasswordLength, MaxPasswordLength)
}

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether the plain-text password matches the bcrypt
// hash. Returns false for invalid hashes rather than an error.
func CheckPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// ValidEmail reports whether s looks like a plausible email address.
// This is a structural check, not RFC validation. Deliverability is proven
// by the verification email, not here.
func ValidEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}
