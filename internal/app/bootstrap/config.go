// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Fyndfluencer.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: FYNDFLUENCER_MONGO_URI, FYNDFLUENCER_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "fyndfluencer", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "fyndfluencer-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session lifetime (e.g., 720h for 30 days)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host (blank logs emails instead of sending)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@fyndfluencer.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Fyndfluencer", Desc: "From display name"},

	// Public URLs and site identity
	{Name: "base_url", Default: "http://localhost:8080", Desc: "API origin for links in emails"},
	{Name: "frontend_url", Default: "http://localhost:3000", Desc: "SPA origin for OAuth redirects"},
	{Name: "site_name", Default: "Fyndfluencer", Desc: "Display name used in emails and notifications"},

	// Email verification settings
	{Name: "email_verify_expiry", Default: "10m", Desc: "Email verification code/link expiry (e.g., 10m, 1h, 90s)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_account", Default: "all", Desc: "Account event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Facebook OAuth configuration
	{Name: "facebook_client_id", Default: "", Desc: "Facebook OAuth2 client ID"},
	{Name: "facebook_client_secret", Default: "", Desc: "Facebook OAuth2 client secret"},

	// Login rate limiting
	{Name: "login_rate_ip_limit", Default: 20, Desc: "Login attempts allowed per IP per window"},
	{Name: "login_rate_ip_window", Default: "15m", Desc: "Login rate-limit window per IP"},
	{Name: "login_rate_email_limit", Default: 5, Desc: "Login attempts allowed per email per window"},
	{Name: "login_rate_email_window", Default: "15m", Desc: "Login rate-limit window per email"},

	// Text generation (OpenRouter)
	{Name: "openrouter_api_key", Default: "", Desc: "OpenRouter API key (blank disables bio suggestions)"},
	{Name: "openrouter_model", Default: "", Desc: "OpenRouter model slug (blank uses the client default)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FYNDFLUENCER_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FYNDFLUENCER", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 720*time.Hour),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL:     appValues.String("base_url"),
		FrontendURL: appValues.String("frontend_url"),
		SiteName:    appValues.String("site_name"),

		EmailVerifyExpiry: appValues.Duration("email_verify_expiry", 10*time.Minute),

		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogAccount: appValues.String("audit_log_account"),

		GoogleClientID:       appValues.String("google_client_id"),
		GoogleClientSecret:   appValues.String("google_client_secret"),
		FacebookClientID:     appValues.String("facebook_client_id"),
		FacebookClientSecret: appValues.String("facebook_client_secret"),

		LoginRateIPLimit:     appValues.Int("login_rate_ip_limit"),
		LoginRateIPWindow:    appValues.Duration("login_rate_ip_window", 15*time.Minute),
		LoginRateEmailLimit:  appValues.Int("login_rate_email_limit"),
		LoginRateEmailWindow: appValues.Duration("login_rate_email_window", 15*time.Minute),

		OpenRouterAPIKey: appValues.String("openrouter_api_key"),
		OpenRouterModel:  appValues.String("openrouter_model"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// Fyndfluencer validates the MongoDB URI format and the session key
// length to catch configuration errors early, before attempting to
// connect or mint cookies nobody can verify.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 characters (got %d)", len(appCfg.SessionKey))
	}

	// Social sign-in needs both halves of a credential pair or neither.
	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}
	if (appCfg.FacebookClientID == "") != (appCfg.FacebookClientSecret == "") {
		return fmt.Errorf("facebook_client_id and facebook_client_secret must be set together")
	}

	return nil
}
