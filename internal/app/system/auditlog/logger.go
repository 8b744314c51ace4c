// internal/app/system/auditlog/logger.go
package auditlog

// Terminology: User Identifiers
//   - UserID / userID / user_id: the identity-provider subject ID that keys
//     the users collection ("google:<sub>", "facebook:<id>", or a UUID for
//     email/password accounts).

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/obakengmog/fyndfluencer/internal/app/store/audit"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, password, verification).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Account controls logging for account lifecycle events (provisioning,
	// onboarding, membership changes).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Account string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.OrganizationID != "" {
		fields = append(fields, zap.String("organization_id", event.OrganizationID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAccount:
		setting = l.config.Account
	default:
		setting = "all" // Default to logging everything for unknown categories
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, orgID, provider, email string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAuth,
		EventType:      audit.EventLoginSuccess,
		UserID:         userID,
		OrganizationID: orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"provider": provider,
			"email":    email,
		},
	})
}

// SocialSignIn logs a successful social sign-in, noting whether the user was
// provisioned on this request.
func (l *Logger) SocialSignIn(ctx context.Context, r *http.Request, userID, provider string, isNewUser bool) {
	details := map[string]string{"provider": provider}
	if isNewUser {
		details["first_login"] = "true"
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSocialSignIn,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// LoginFailedUserNotFound logs a failed login because no account exists.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedWrongChannel logs a login attempt through a channel that does
// not match the account's registered provider.
func (l *Logger) LoginFailedWrongChannel(ctx context.Context, r *http.Request, userID, email, attemptedProvider, actualProvider string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongChannel,
		UserID:        userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong login channel",
		Details: map[string]string{
			"email":              email,
			"attempted_provider": attemptedProvider,
			"actual_provider":    actualProvider,
		},
	})
}

// LoginFailedWrongKind logs a login attempt through a surface that does not
// match the account's kind (e.g. an influencer on the brand/agency form).
func (l *Logger) LoginFailedWrongKind(ctx context.Context, r *http.Request, userID, email, attemptedKind, actualKind string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongKind,
		UserID:        userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong account kind",
		Details: map[string]string{
			"email":          email,
			"attempted_kind": attemptedKind,
			"actual_kind":    actualKind,
		},
	})
}

// LoginFailedRateLimit logs a login attempt blocked by rate limiting.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "rate limited",
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// Logout logs a logout event.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID, orgID string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAuth,
		EventType:      audit.EventLogout,
		UserID:         userID,
		OrganizationID: orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
	})
}

// PasswordResetRequested logs a password reset request.
func (l *Logger) PasswordResetRequested(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordResetRequested,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"email": email,
		},
	})
}

// PasswordChanged logs a completed password change.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// VerificationEmailSent logs an outbound verification email.
func (l *Logger) VerificationEmailSent(ctx context.Context, r *http.Request, userID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventVerificationEmailSent,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"email": email,
		},
	})
}

// EmailVerified logs a completed email verification.
func (l *Logger) EmailVerified(ctx context.Context, r *http.Request, userID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventEmailVerified,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"email": email,
		},
	})
}

// --- Account Events ---

// UserProvisioned logs creation of a user document.
func (l *Logger) UserProvisioned(ctx context.Context, r *http.Request, userID, orgID, userType, provider string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAccount,
		EventType:      audit.EventUserProvisioned,
		UserID:         userID,
		OrganizationID: orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"user_type": userType,
			"provider":  provider,
		},
	})
}

// RegistrationConflict logs a registration attempt against an email that
// already has a credential.
func (l *Logger) RegistrationConflict(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAccount,
		EventType:     audit.EventRegistrationConflict,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "credential already exists",
		Details: map[string]string{
			"email": email,
		},
	})
}

// OrganizationCreated logs creation of an organization document.
func (l *Logger) OrganizationCreated(ctx context.Context, r *http.Request, actorID, orgID, orgType string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAccount,
		EventType:      audit.EventOrganizationCreated,
		ActorID:        actorID,
		OrganizationID: orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"org_type": orgType,
		},
	})
}

// OnboardingCompleted logs completion of organization onboarding.
func (l *Logger) OnboardingCompleted(ctx context.Context, r *http.Request, actorID, orgID, onboardingType string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAccount,
		EventType:      audit.EventOnboardingCompleted,
		ActorID:        actorID,
		OrganizationID: orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"onboarding_type": onboardingType,
		},
	})
}

// MemberInvited logs a team invitation.
func (l *Logger) MemberInvited(ctx context.Context, r *http.Request, actorID, orgID, inviteeEmail, role string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAccount,
		EventType:      audit.EventMemberInvited,
		ActorID:        actorID,
		OrganizationID: orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"invitee_email": inviteeEmail,
			"role":          role,
		},
	})
}

// MemberAdded logs a member joining an organization.
func (l *Logger) MemberAdded(ctx context.Context, r *http.Request, actorID, orgID, userID, role string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAccount,
		EventType:      audit.EventMemberAdded,
		ActorID:        actorID,
		UserID:         userID,
		OrganizationID: orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"role": role,
		},
	})
}

// MemberRemoved logs a member leaving or being removed from an organization.
func (l *Logger) MemberRemoved(ctx context.Context, r *http.Request, actorID, orgID, userID string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAccount,
		EventType:      audit.EventMemberRemoved,
		ActorID:        actorID,
		UserID:         userID,
		OrganizationID: orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
	})
}

// ClientBrandLinked logs an agency linking a client brand.
func (l *Logger) ClientBrandLinked(ctx context.Context, r *http.Request, actorID, agencyOrgID, brandOrgID string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAccount,
		EventType:      audit.EventClientBrandLinked,
		ActorID:        actorID,
		OrganizationID: agencyOrgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"brand_organization_id": brandOrgID,
		},
	})
}

// InfluencerProvisioned logs creation of an influencer document.
func (l *Logger) InfluencerProvisioned(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAccount,
		EventType: audit.EventInfluencerProvisioned,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// ProfileUpdated logs an influencer profile update.
func (l *Logger) ProfileUpdated(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAccount,
		EventType: audit.EventProfileUpdated,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}
