// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where you put everything specific to YOUR application:
//   - Database connection strings (MongoDB URI, etc.)
//   - External service API keys and endpoints
//   - Feature flags and application modes
//   - Business logic configuration
//
// Add fields here as the application grows. The struct is passed to most
// lifecycle hooks, so any configuration needed during startup, request
// handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: fyndfluencer-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime before re-authentication

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit, email-smtp.us-east-1.amazonaws.com for SES)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@fyndfluencer.com)
	MailFromName string // From display name (e.g., Fyndfluencer)

	// Public URLs
	BaseURL     string // API origin for links in emails (e.g., "https://api.fyndfluencer.com")
	FrontendURL string // SPA origin that OAuth callbacks redirect back to
	SiteName    string // Display name used in emails and notifications

	// Email verification settings
	EmailVerifyExpiry time.Duration // Verification code/link lifetime

	// Audit logging settings
	AuditLogAuth    string // Auth event logging: 'all' (db+log), 'db', 'log', or 'off'
	AuditLogAccount string // Account lifecycle event logging: same values

	// Social sign-in configuration
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string

	// Login rate limiting
	LoginRateIPLimit     int           // Attempts allowed per IP per window
	LoginRateIPWindow    time.Duration // IP window length
	LoginRateEmailLimit  int           // Attempts allowed per email per window
	LoginRateEmailWindow time.Duration // Email window length

	// Text generation (OpenRouter) configuration
	OpenRouterAPIKey string // Blank disables generated bio suggestions
	OpenRouterModel  string // Model slug (blank uses the client default)
}
