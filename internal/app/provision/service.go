// internal/app/provision/service.go

// Package provision implements the account provisioning protocol: given a
// verified principal from the credential layer, it decides whether the
// account already exists, checks kind compatibility, and either creates the
// User plus its satellite document or refreshes login metadata on the
// existing one.
package provision

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/obakengmog/fyndfluencer/internal/app/system/emailcheck"
	"github.com/obakengmog/fyndfluencer/internal/app/system/identity"
	"github.com/obakengmog/fyndfluencer/internal/app/system/normalize"
	"github.com/obakengmog/fyndfluencer/internal/app/system/txn"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

// Terminal, user-visible provisioning errors. Credential and store failures
// pass through unwrapped; callers decide whether to retry those.
var (
	// ErrCredentialConflict means the email already has a registered credential.
	ErrCredentialConflict = errors.New("an account with this email already exists")
	// ErrWrongAccountKind means a social sign-in matched an existing
	// brand/agency account.
	ErrWrongAccountKind = errors.New("this account is not an influencer account")
	// ErrAccountNotFound means the credential verified but no account document
	// exists. Corporate accounts are provisioned only through registration,
	// never repaired on login.
	ErrAccountNotFound = errors.New("no account exists for these credentials")
	// ErrWrongLoginChannel means an influencer account tried the email login
	// used by brands and agencies.
	ErrWrongLoginChannel = errors.New("influencer accounts must sign in with Google or Facebook")
	// ErrInvalidAccountKind means a registration asked for a kind other than
	// brand or agency.
	ErrInvalidAccountKind = errors.New("account kind must be brand or agency")
)

// UserStore is the slice of the user store the protocol needs. Get returns
// (nil, nil) when the user does not exist.
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Put(ctx context.Context, u models.User) error
	TouchLogin(ctx context.Context, id, displayName, photoURL string, emailVerified bool) error
}

// OrganizationStore creates the satellite document for brand/agency accounts.
type OrganizationStore interface {
	Create(ctx context.Context, org models.Organization) (models.Organization, error)
}

// InfluencerStore creates the satellite document for influencer accounts.
type InfluencerStore interface {
	Create(ctx context.Context, userID, displayName string) (models.Influencer, error)
}

// Service runs the provisioning protocol against injected collaborators.
type Service struct {
	users       UserStore
	orgs        OrganizationStore
	influencers InfluencerStore
	idp         identity.Provider
	notifier    *identity.Notifier
	logger      *zap.Logger

	// txnClient enables transactional multi-document creation. Nil means
	// sequential writes, which is also the fallback on standalone servers.
	txnClient *mongo.Client

	now func() time.Time
}

// New wires a Service. The notifier may be nil when no one subscribes to
// auth-state changes.
func New(users UserStore, orgs OrganizationStore, influencers InfluencerStore, idp identity.Provider, notifier *identity.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:       users,
		orgs:        orgs,
		influencers: influencers,
		idp:         idp,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// UseTransactions makes account creation write its documents inside a
// MongoDB transaction when the deployment supports one.
func (s *Service) UseTransactions(client *mongo.Client) {
	s.txnClient = client
}

// SignInResult is returned by SocialSignIn and Login.
type SignInResult struct {
	Principal *identity.Principal
	User      *models.User
	IsNewUser bool
}

// RegistrationInput is the corporate registration request.
type RegistrationInput struct {
	Email            string
	Password         string
	DisplayName      string
	UserType         string // brand | agency
	OrganizationName string
	Website          string
	Industry         string
}

// RegistrationResult is returned by RegisterOrganization.
type RegistrationResult struct {
	Principal      *identity.Principal
	User           *models.User
	OrganizationID string
}

// SocialSignIn exchanges an OAuth code for a principal and provisions or
// refreshes the influencer account behind it.
//
// A fresh subject id gets a User plus an Influencer profile; both documents
// exist before the call returns IsNewUser true. On deployments without
// transactions the two writes run sequentially, and a crash between them
// leaves a User without a profile, which is surfaced to the caller rather
// than repaired here. A subject id that maps to a brand or agency account
// fails with ErrWrongAccountKind.
func (s *Service) SocialSignIn(ctx context.Context, provider, code string) (*SignInResult, error) {
	p, err := s.idp.VerifySocial(ctx, provider, code)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.Get(ctx, p.SubjectID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.UserType != models.UserTypeInfluencer {
			return nil, ErrWrongAccountKind
		}
		if err := s.users.TouchLogin(ctx, existing.ID, p.DisplayName, p.PhotoURL, p.EmailVerified); err != nil {
			return nil, err
		}
		now := s.now().UTC()
		existing.LastLoginAt = now
		existing.UpdatedAt = now
		existing.EmailVerified = p.EmailVerified
		if p.DisplayName != "" {
			existing.DisplayName = normalize.Name(p.DisplayName)
		}
		if p.PhotoURL != "" {
			existing.PhotoURL = p.PhotoURL
		}

		s.publish(p)
		return &SignInResult{Principal: p, User: existing, IsNewUser: false}, nil
	}

	now := s.now().UTC()
	u := models.User{
		ID:            p.SubjectID,
		Email:         normalize.Email(p.Email),
		DisplayName:   normalize.Name(p.DisplayName),
		PhotoURL:      p.PhotoURL,
		UserType:      models.UserTypeInfluencer,
		AuthProvider:  p.Provider,
		EmailVerified: p.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
		LastLoginAt:   now,
	}
	err = txn.Run(ctx, s.txnClient, func(ctx context.Context) error {
		if err := s.users.Put(ctx, u); err != nil {
			return err
		}
		if _, err := s.influencers.Create(ctx, p.SubjectID, p.DisplayName); err != nil {
			// Without a transaction the user exists and the profile does
			// not. Report it instead of masking.
			s.logger.Error("influencer profile creation failed after user write",
				zap.String("subject_id", p.SubjectID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("provisioned influencer account",
		zap.String("subject_id", p.SubjectID), zap.String("provider", p.Provider))

	s.publish(p)
	return &SignInResult{Principal: p, User: &u, IsNewUser: true}, nil
}

// RegisterOrganization creates a brand or agency account: a password
// credential, an Organization with the owner as its first member, and the
// owning User. The owner's subject id doubles as the organization id. The
// verification email is sent in the background and never blocks the result.
func (s *Service) RegisterOrganization(ctx context.Context, in RegistrationInput) (*RegistrationResult, error) {
	kind := normalize.UserType(in.UserType)
	if !models.IsOrganizationType(kind) {
		return nil, ErrInvalidAccountKind
	}

	email := normalize.Email(in.Email)
	personal := emailcheck.IsPersonalDomain(email)

	p, err := s.idp.CreatePassword(ctx, email, in.Password, in.DisplayName)
	if err != nil {
		if errors.Is(err, identity.ErrCredentialExists) {
			return nil, ErrCredentialConflict
		}
		return nil, err
	}

	s.sendVerificationEmail(ctx, p)

	now := s.now().UTC()
	orgID := p.SubjectID
	org := models.Organization{
		ID:       orgID,
		Type:     kind,
		Name:     in.OrganizationName,
		Website:  in.Website,
		Industry: in.Industry,
		OwnerID:  p.SubjectID,
		Members: []models.OrganizationMember{{
			UserID:      p.SubjectID,
			Email:       email,
			DisplayName: in.DisplayName,
			Role:        models.RoleOwner,
			JoinedAt:    now,
			InvitedBy:   p.SubjectID,
		}},
	}
	u := models.User{
		ID:              p.SubjectID,
		Email:           email,
		DisplayName:     normalize.Name(in.DisplayName),
		UserType:        kind,
		OrganizationID:  orgID,
		Role:            models.RoleOwner,
		AuthProvider:    models.ProviderEmail,
		EmailVerified:   false,
		IsPersonalEmail: personal,
		CreatedAt:       now,
		UpdatedAt:       now,
		LastLoginAt:     now,
	}
	err = txn.Run(ctx, s.txnClient, func(ctx context.Context) error {
		if _, err := s.orgs.Create(ctx, org); err != nil {
			return err
		}
		if err := s.users.Put(ctx, u); err != nil {
			s.logger.Error("user write failed after organization creation",
				zap.String("subject_id", p.SubjectID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("registered organization account",
		zap.String("subject_id", p.SubjectID),
		zap.String("user_type", kind),
		zap.Bool("personal_email", personal))

	s.publish(p)
	return &RegistrationResult{Principal: p, User: &u, OrganizationID: orgID}, nil
}

// Login verifies an email/password credential and refreshes the corporate
// account behind it. A credential with no account document fails with
// ErrAccountNotFound and writes nothing; an influencer account on a social
// provider fails with ErrWrongLoginChannel.
func (s *Service) Login(ctx context.Context, email, password string) (*SignInResult, error) {
	p, err := s.idp.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Get(ctx, p.SubjectID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrAccountNotFound
	}
	if u.UserType == models.UserTypeInfluencer && u.AuthProvider != models.ProviderEmail {
		return nil, ErrWrongLoginChannel
	}

	if err := s.users.TouchLogin(ctx, u.ID, "", "", p.EmailVerified); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u.LastLoginAt = now
	u.UpdatedAt = now
	u.EmailVerified = p.EmailVerified

	s.publish(p)
	return &SignInResult{Principal: p, User: u, IsNewUser: false}, nil
}

// Logout announces the signed-out state to subscribers. It has no document
// effects; session teardown belongs to the HTTP layer.
func (s *Service) Logout(ctx context.Context) {
	s.publish(nil)
}

// RequestPasswordReset passes through to the credential layer. It returns nil
// for unknown emails so callers cannot probe which addresses are registered.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	return s.idp.SendPasswordReset(ctx, normalize.Email(email))
}

// sendVerificationEmail fires the verification email without blocking the
// registration result. Failures are logged; the user can request a resend.
func (s *Service) sendVerificationEmail(ctx context.Context, p *identity.Principal) {
	bg := context.WithoutCancel(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(bg, 30*time.Second)
		defer cancel()
		if err := s.idp.SendVerificationEmail(sendCtx, p); err != nil {
			s.logger.Warn("verification email send failed",
				zap.String("subject_id", p.SubjectID), zap.Error(err))
		}
	}()
}

func (s *Service) publish(p *identity.Principal) {
	if s.notifier != nil {
		s.notifier.Publish(p)
	}
}
