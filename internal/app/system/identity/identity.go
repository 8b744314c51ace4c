// internal/app/system/identity/identity.go

// Package identity abstracts the credential layer behind the onboarding
// flows. A Provider authenticates people and yields a Principal; what happens
// to that Principal (user documents, organizations, influencer profiles) is
// the provision package's concern.
package identity

import (
	"context"
	"errors"
)

// Sentinel errors returned by Provider implementations.
var (
	// ErrCredentialExists means the email already has a password credential.
	ErrCredentialExists = errors.New("identity: credential already exists for email")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	// ErrUnknownProvider means the named social provider is not configured.
	ErrUnknownProvider = errors.New("identity: unknown auth provider")
	// ErrCodeExchangeFailed means the OAuth authorization code was rejected.
	ErrCodeExchangeFailed = errors.New("identity: authorization code exchange failed")
)

// Principal is an authenticated identity. SubjectID is stable per provider
// account: "google:<sub>" and "facebook:<id>" for social logins, a UUID for
// password credentials.
type Principal struct {
	SubjectID     string
	Email         string
	DisplayName   string
	PhotoURL      string
	Provider      string
	EmailVerified bool
}

// Provider authenticates principals. The single production implementation
// (package idp) backs passwords with MongoDB and bcrypt and social logins
// with OAuth 2.0; tests substitute an in-memory fake.
type Provider interface {
	// CreatePassword registers a new password credential and returns the new
	// principal. Returns ErrCredentialExists when the email is taken.
	CreatePassword(ctx context.Context, email, password, displayName string) (*Principal, error)

	// VerifyPassword checks a password login. Returns ErrInvalidCredentials
	// on unknown email or wrong password.
	VerifyPassword(ctx context.Context, email, password string) (*Principal, error)

	// AuthCodeURL returns the provider's OAuth consent URL for the given
	// state token. Returns ErrUnknownProvider for unconfigured providers.
	AuthCodeURL(provider, state string) (string, error)

	// VerifySocial exchanges an OAuth authorization code and returns the
	// social principal.
	VerifySocial(ctx context.Context, provider, code string) (*Principal, error)

	// SendVerificationEmail issues a verification code to the principal's
	// email address.
	SendVerificationEmail(ctx context.Context, p *Principal) error

	// SendPasswordReset issues a reset link to the email if a credential
	// exists. Always returns nil for unknown emails so the endpoint does not
	// leak which addresses are registered.
	SendPasswordReset(ctx context.Context, email string) error
}
