// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsocialfeature "github.com/obakengmog/fyndfluencer/internal/app/features/authsocial"
	errorsfeature "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	healthfeature "github.com/obakengmog/fyndfluencer/internal/app/features/health"
	influencersfeature "github.com/obakengmog/fyndfluencer/internal/app/features/influencers"
	loginfeature "github.com/obakengmog/fyndfluencer/internal/app/features/login"
	logoutfeature "github.com/obakengmog/fyndfluencer/internal/app/features/logout"
	notificationsfeature "github.com/obakengmog/fyndfluencer/internal/app/features/notifications"
	organizationsfeature "github.com/obakengmog/fyndfluencer/internal/app/features/organizations"
	passwordfeature "github.com/obakengmog/fyndfluencer/internal/app/features/password"
	registerfeature "github.com/obakengmog/fyndfluencer/internal/app/features/register"
	userinfofeature "github.com/obakengmog/fyndfluencer/internal/app/features/userinfo"
	"github.com/obakengmog/fyndfluencer/internal/app/provision"
	auditstore "github.com/obakengmog/fyndfluencer/internal/app/store/audit"
	credentialstore "github.com/obakengmog/fyndfluencer/internal/app/store/credentials"
	emailverifystore "github.com/obakengmog/fyndfluencer/internal/app/store/emailverify"
	influencerstore "github.com/obakengmog/fyndfluencer/internal/app/store/influencers"
	loginstore "github.com/obakengmog/fyndfluencer/internal/app/store/logins"
	notificationstore "github.com/obakengmog/fyndfluencer/internal/app/store/notifications"
	oauthstatestore "github.com/obakengmog/fyndfluencer/internal/app/store/oauthstate"
	organizationstore "github.com/obakengmog/fyndfluencer/internal/app/store/organizations"
	userstore "github.com/obakengmog/fyndfluencer/internal/app/store/users"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auditlog"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/identity"
	"github.com/obakengmog/fyndfluencer/internal/app/system/identity/idp"
	"github.com/obakengmog/fyndfluencer/internal/app/system/mailer"
	"github.com/obakengmog/fyndfluencer/internal/app/system/ratelimit"
	"github.com/obakengmog/fyndfluencer/internal/app/system/textgen"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// Fyndfluencer serves a JSON API for a single-page frontend. BuildHandler
// assembles the shared services (session manager, stores, mailer, identity
// provider, provisioning, audit logging, rate limiting) and mounts the
// feature routers under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(
		appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request so role
	// changes and removed accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := errorsfeature.NewErrorLogger(logger)

	// Stores shared across features.
	users := userstore.New(db)
	orgs := organizationstore.New(db)
	influencers := influencerstore.New(db)
	creds := credentialstore.New(db)
	verify := emailverifystore.New(db, appCfg.EmailVerifyExpiry)
	oauthStates := oauthstatestore.New(db)
	logins := loginstore.New(db)
	notifications := notificationstore.New(db)

	from := appCfg.MailFrom
	if appCfg.MailFromName != "" {
		from = fmt.Sprintf("%s <%s>", appCfg.MailFromName, appCfg.MailFrom)
	}
	mail := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass, from, logger)

	idpSvc := idp.New(creds, verify, mail, logger, idp.Config{
		SiteName:             appCfg.SiteName,
		BaseURL:              appCfg.BaseURL,
		GoogleClientID:       appCfg.GoogleClientID,
		GoogleClientSecret:   appCfg.GoogleClientSecret,
		FacebookClientID:     appCfg.FacebookClientID,
		FacebookClientSecret: appCfg.FacebookClientSecret,
	})

	provisionSvc := provision.New(users, orgs, influencers, idpSvc, identity.NewNotifier(), logger)
	provisionSvc.UseTransactions(deps.MongoClient)

	auditLogger := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Account: appCfg.AuditLogAccount,
	})

	loginLimiter := ratelimit.NewLoginLimiterWithConfig(
		appCfg.LoginRateIPLimit, appCfg.LoginRateIPWindow,
		appCfg.LoginRateEmailLimit, appCfg.LoginRateEmailWindow)

	// Bio suggestions stay off unless an OpenRouter key is configured.
	var textGen *textgen.Client
	if appCfg.OpenRouterAPIKey != "" {
		textGen = textgen.New(textgen.Config{
			APIKey:  appCfg.OpenRouterAPIKey,
			Model:   appCfg.OpenRouterModel,
			Referer: appCfg.FrontendURL,
			Title:   appCfg.SiteName,
		}, logger)
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication and account recovery
	registerHandler := registerfeature.NewHandler(provisionSvc, sessionMgr, errLog, auditLogger, logins, logger)
	loginHandler := loginfeature.NewHandler(provisionSvc, sessionMgr, errLog, auditLogger, logins, loginLimiter, logger)
	logoutHandler := logoutfeature.NewHandler(provisionSvc, sessionMgr, auditLogger, logger)
	passwordHandler := passwordfeature.NewHandler(provisionSvc, idpSvc, users, errLog, auditLogger, logger)
	socialHandler := authsocialfeature.NewHandler(provisionSvc, idpSvc, oauthStates, sessionMgr,
		auditLogger, logins, appCfg.FrontendURL, logger)

	r.Route("/api/auth", func(ar chi.Router) {
		ar.Mount("/register", registerfeature.Routes(registerHandler))
		ar.Mount("/login", loginfeature.Routes(loginHandler))
		ar.Mount("/logout", logoutfeature.Routes(logoutHandler))
		ar.Mount("/password", passwordfeature.Routes(passwordHandler, sessionMgr))
		ar.Mount("/verify-email", passwordfeature.VerifyEmailRoutes(passwordHandler, sessionMgr))

		// The social router owns /{provider} and /{provider}/callback, so
		// it takes the subtree catch-all after the static mounts above.
		ar.Mount("/", authsocialfeature.Routes(socialHandler))
	})

	// Current-user endpoint; answers 200 for anonymous callers too.
	meHandler := userinfofeature.NewHandler(users, orgs, influencers, errLog, logger)
	r.Mount("/api/me", userinfofeature.Routes(meHandler))

	// Tenant management for brand and agency accounts
	orgHandler := organizationsfeature.NewHandler(orgs, users, notifications, mail,
		errLog, auditLogger, logger, appCfg.SiteName, appCfg.BaseURL)
	r.Mount("/api/org", organizationsfeature.Routes(orgHandler, sessionMgr))

	// Creator profiles, search, and rate cards
	infHandler := influencersfeature.NewHandler(influencers, textGen, errLog, auditLogger, logger)
	r.Mount("/api/influencers", influencersfeature.Routes(infHandler, sessionMgr))

	// Per-user notification inbox
	noteHandler := notificationsfeature.NewHandler(notifications, errLog, logger)
	r.Mount("/api/notifications", notificationsfeature.Routes(noteHandler, sessionMgr))

	return r, nil
}
