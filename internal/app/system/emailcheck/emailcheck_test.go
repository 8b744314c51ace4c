package emailcheck

import "testing"

func TestIsPersonalDomain_Consumer(t *testing.T) {
	personal := []string{
		"a@gmail.com",
		"user@yahoo.com",
		"someone@protonmail.com",
		"x@gmx.com",
	}
	for _, email := range personal {
		if !IsPersonalDomain(email) {
			t.Errorf("expected %q to be classified personal", email)
		}
	}
}

func TestIsPersonalDomain_Corporate(t *testing.T) {
	corporate := []string{
		"jane@acme.io",
		"ops@customdomain.io",
		"ceo@bigbrand.co.uk",
	}
	for _, email := range corporate {
		if IsPersonalDomain(email) {
			t.Errorf("expected %q to be classified corporate", email)
		}
	}
}

func TestIsPersonalDomain_CaseInsensitive(t *testing.T) {
	if IsPersonalDomain("A@GMAIL.com") != IsPersonalDomain("a@gmail.com") {
		t.Error("classification must be case-insensitive")
	}
	if !IsPersonalDomain("A@GMAIL.COM") {
		t.Error("expected uppercase gmail address to be personal")
	}
}

func TestIsPersonalDomain_Malformed(t *testing.T) {
	if IsPersonalDomain("not-an-email") {
		t.Error("input without @ must classify as not personal")
	}
	if IsPersonalDomain("trailing@") {
		t.Error("input with empty domain must classify as not personal")
	}
	if IsPersonalDomain("") {
		t.Error("empty input must classify as not personal")
	}
}

func TestIsPersonalDomain_LastAtWins(t *testing.T) {
	// The domain is whatever follows the last "@".
	if !IsPersonalDomain(`"odd@local"@gmail.com`) {
		t.Error("expected domain after last @ to be used")
	}
	if IsPersonalDomain("user@gmail.com@acme.io") {
		t.Error("expected domain after last @ to be used")
	}
}
