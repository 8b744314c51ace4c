// internal/app/system/identity/idp/idp.go

// Package idp is the production identity.Provider. Password credentials live
// in MongoDB with bcrypt hashes; social logins go through OAuth 2.0 against
// Google and Facebook.
package idp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/obakengmog/fyndfluencer/internal/app/store/credentials"
	"github.com/obakengmog/fyndfluencer/internal/app/store/emailverify"
	"github.com/obakengmog/fyndfluencer/internal/app/system/authutil"
	"github.com/obakengmog/fyndfluencer/internal/app/system/identity"
	"github.com/obakengmog/fyndfluencer/internal/app/system/mailer"
	"github.com/obakengmog/fyndfluencer/internal/app/system/normalize"
)

// Config carries the settings the provider needs beyond its stores.
type Config struct {
	SiteName string
	BaseURL  string // public URL for links in emails, no trailing slash

	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
}

// Service implements identity.Provider.
type Service struct {
	creds  *credentialstore.Store
	verify *emailverify.Store
	mail   *mailer.Mailer
	log    *zap.Logger

	siteName string
	baseURL  string
	social   map[string]*socialProvider
}

// New builds the provider. Social providers with empty client IDs are left
// unconfigured and report ErrUnknownProvider.
func New(creds *credentialstore.Store, verify *emailverify.Store, mail *mailer.Mailer, log *zap.Logger, cfg Config) *Service {
	s := &Service{
		creds:    creds,
		verify:   verify,
		mail:     mail,
		log:      log,
		siteName: cfg.SiteName,
		baseURL:  cfg.BaseURL,
		social:   make(map[string]*socialProvider),
	}
	s.configureSocial(cfg)
	return s
}

// CreatePassword registers a new password credential.
func (s *Service) CreatePassword(ctx context.Context, email, password, displayName string) (*identity.Principal, error) {
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return nil, err
	}

	cred, err := s.creds.Create(ctx, email, hash, displayName)
	if err != nil {
		if err == credentialstore.ErrDuplicateEmail {
			return nil, identity.ErrCredentialExists
		}
		return nil, fmt.Errorf("create credential: %w", err)
	}

	s.log.Info("password credential created",
		zap.String("subject_id", cred.ID),
		zap.String("email", cred.Email))

	return &identity.Principal{
		SubjectID:     cred.ID,
		Email:         cred.Email,
		DisplayName:   cred.DisplayName,
		Provider:      "email",
		EmailVerified: false,
	}, nil
}

// VerifyPassword checks a password login. Unknown email and wrong password
// both come back as ErrInvalidCredentials.
func (s *Service) VerifyPassword(ctx context.Context, email, password string) (*identity.Principal, error) {
	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup credential: %w", err)
	}
	if cred == nil {
		// Burn a bcrypt comparison anyway so response timing does not reveal
		// whether the email is registered.
		authutil.CheckPassword(password, "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva")
		return nil, identity.ErrInvalidCredentials
	}

	if !authutil.CheckPassword(password, cred.PasswordHash) {
		return nil, identity.ErrInvalidCredentials
	}

	return &identity.Principal{
		SubjectID:     cred.ID,
		Email:         cred.Email,
		DisplayName:   cred.DisplayName,
		Provider:      "email",
		EmailVerified: cred.EmailVerified,
	}, nil
}

// SendVerificationEmail issues a fresh verification code and emails it.
func (s *Service) SendVerificationEmail(ctx context.Context, p *identity.Principal) error {
	result, err := s.verify.Create(ctx, p.SubjectID, p.Email, emailverify.PurposeVerify, false)
	if err != nil {
		return fmt.Errorf("create verification: %w", err)
	}

	msg := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
		SiteName:   s.siteName,
		Code:       result.Code,
		VerifyLink: fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, result.Token),
		ExpiresIn:  formatDuration(s.verify.Expiry()),
	})
	msg.To = p.Email

	if err := s.mail.Send(msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	s.log.Info("verification email sent",
		zap.String("subject_id", p.SubjectID),
		zap.String("email", p.Email))
	return nil
}

// SendPasswordReset issues a reset link if a credential exists. Unknown
// emails return nil so the endpoint does not leak which addresses are
// registered.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup credential: %w", err)
	}
	if cred == nil {
		s.log.Info("password reset requested for unknown email",
			zap.String("email", normalize.Email(email)))
		return nil
	}

	result, err := s.verify.Create(ctx, cred.ID, cred.Email, emailverify.PurposeReset, false)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}

	msg := mailer.BuildPasswordResetEmail(mailer.PasswordResetEmailData{
		SiteName:  s.siteName,
		ResetLink: fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, result.Token),
		ExpiresIn: formatDuration(s.verify.Expiry()),
	})
	msg.To = cred.Email

	if err := s.mail.Send(msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	s.log.Info("password reset email sent", zap.String("subject_id", cred.ID))
	return nil
}

// CompletePasswordReset redeems a reset token and stores the new password.
func (s *Service) CompletePasswordReset(ctx context.Context, token, newPassword string) (string, error) {
	if err := authutil.ValidatePassword(newPassword); err != nil {
		return "", err
	}

	v, err := s.verify.VerifyToken(ctx, emailverify.PurposeReset, token)
	if err != nil {
		return "", err
	}

	hash, err := authutil.HashPassword(newPassword)
	if err != nil {
		return "", err
	}
	if err := s.creds.SetPassword(ctx, v.UserID, hash); err != nil {
		return "", fmt.Errorf("store new password: %w", err)
	}

	s.log.Info("password reset completed", zap.String("subject_id", v.UserID))
	return v.UserID, nil
}

// VerifyEmailCode redeems a verification code and marks the credential
// verified. Returns the subject ID.
func (s *Service) VerifyEmailCode(ctx context.Context, subjectID, code string) error {
	if _, err := s.verify.VerifyCode(ctx, subjectID, emailverify.PurposeVerify, code); err != nil {
		return err
	}
	return s.creds.MarkEmailVerified(ctx, subjectID)
}

// VerifyEmailToken redeems a verification link token and marks the credential
// verified. Returns the subject ID.
func (s *Service) VerifyEmailToken(ctx context.Context, token string) (string, error) {
	v, err := s.verify.VerifyToken(ctx, emailverify.PurposeVerify, token)
	if err != nil {
		return "", err
	}
	if err := s.creds.MarkEmailVerified(ctx, v.UserID); err != nil {
		return "", err
	}
	return v.UserID, nil
}

func formatDuration(d time.Duration) string {
	if d >= time.Hour {
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}
