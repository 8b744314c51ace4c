// internal/app/system/emailcheck/emailcheck.go

// Package emailcheck classifies email addresses as personal or corporate by
// the domain after the last "@". Pure lookup against a fixed denylist of
// consumer mail providers; no network access and no error path.
package emailcheck

import "strings"

// personalDomains is the fixed set of consumer mail domains. A match means
// the address is a personal mailbox rather than a company one.
var personalDomains = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"icloud.com":     {},
	"aol.com":        {},
	"protonmail.com": {},
	"mail.com":       {},
	"zoho.com":       {},
	"yandex.com":     {},
	"gmx.com":        {},
}

// IsPersonalDomain reports whether the address uses a consumer mail provider.
// The domain is taken after the last "@" and compared case-insensitively.
// Malformed input with no "@" is classified as not personal.
func IsPersonalDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	_, ok := personalDomains[domain]
	return ok
}
