// internal/app/system/normalize/normalize.go

// Package normalize holds the canonical string forms used at store write
// sites, so that lookups and uniqueness checks behave the same everywhere.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses internal runs of whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// UserType lowercases and trims an account-kind value.
func UserType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Provider lowercases and trims an auth-provider value.
func Provider(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a member-role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
