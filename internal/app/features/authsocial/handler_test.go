package authsocial_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/obakengmog/fyndfluencer/internal/app/features/authsocial"
	"github.com/obakengmog/fyndfluencer/internal/app/provision"
	"github.com/obakengmog/fyndfluencer/internal/app/store/audit"
	influencerstore "github.com/obakengmog/fyndfluencer/internal/app/store/influencers"
	loginstore "github.com/obakengmog/fyndfluencer/internal/app/store/logins"
	"github.com/obakengmog/fyndfluencer/internal/app/store/oauthstate"
	organizationstore "github.com/obakengmog/fyndfluencer/internal/app/store/organizations"
	userstore "github.com/obakengmog/fyndfluencer/internal/app/store/users"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auditlog"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/identity"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
	"github.com/obakengmog/fyndfluencer/internal/testutil"
)

// fakeProvider exchanges the fixed code "good-code" for a Google principal.
type fakeProvider struct{}

func (fakeProvider) CreatePassword(ctx context.Context, email, password, displayName string) (*identity.Principal, error) {
	return nil, identity.ErrCredentialExists
}

func (fakeProvider) VerifyPassword(ctx context.Context, email, password string) (*identity.Principal, error) {
	return nil, identity.ErrInvalidCredentials
}

func (fakeProvider) AuthCodeURL(provider, state string) (string, error) {
	if provider != "google" && provider != "facebook" {
		return "", identity.ErrUnknownProvider
	}
	return "https://consent.example/" + provider + "?state=" + url.QueryEscape(state), nil
}

func (fakeProvider) VerifySocial(ctx context.Context, provider, code string) (*identity.Principal, error) {
	if code != "good-code" {
		return nil, identity.ErrCodeExchangeFailed
	}
	return &identity.Principal{
		SubjectID:     provider + ":sub-123",
		Email:         "creator@gmail.com",
		DisplayName:   "Thandi M",
		PhotoURL:      "https://cdn.example/p.jpg",
		Provider:      provider,
		EmailVerified: true,
	}, nil
}

func (fakeProvider) SendVerificationEmail(ctx context.Context, p *identity.Principal) error {
	return nil
}

func (fakeProvider) SendPasswordReset(ctx context.Context, email string) error {
	return nil
}

type fixture struct {
	handler     *authsocial.Handler
	users       *userstore.Store
	influencers *influencerstore.Store
}

func newFixture(t *testing.T, db *mongo.Database) *fixture {
	t.Helper()

	users := userstore.New(db)
	influencers := influencerstore.New(db)
	svc := provision.New(
		users, organizationstore.New(db), influencers,
		fakeProvider{}, identity.NewNotifier(), zap.NewNop())

	sessionMgr, err := auth.NewSessionManager(
		"0123456789abcdef0123456789abcdef", "test_session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	auditLogger := auditlog.New(audit.New(db), zap.NewNop(), auditlog.Config{Auth: "db", Account: "db"})

	h := authsocial.NewHandler(
		svc, fakeProvider{}, oauthstate.New(db), sessionMgr,
		auditLogger, loginstore.New(db), "https://app.fyndfluencer.test", zap.NewNop())
	return &fixture{handler: h, users: users, influencers: influencers}
}

// startFlow runs the start endpoint and returns the state it stored.
func startFlow(t *testing.T, router http.Handler, provider string) string {
	t.Helper()

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/"+provider))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("start status: got %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad consent location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("no state in consent URL")
	}
	return state
}

func TestHandleStart_RedirectsToConsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	router := authsocial.Routes(f.handler)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/google"))

	rec.AssertStatus(t, http.StatusTemporaryRedirect)
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "https://consent.example/google") {
		t.Errorf("location: %q", loc)
	}
}

func TestHandleStart_UnknownProvider(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	router := authsocial.Routes(f.handler)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/myspace"))

	rec.AssertStatus(t, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=provider_not_configured") {
		t.Errorf("location: %q", loc)
	}
}

func TestHandleCallback_FirstLoginProvisionsAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	router := authsocial.Routes(f.handler)

	state := startFlow(t, router, "google")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET",
		"/google/callback?state="+url.QueryEscape(state)+"&code=good-code"))

	rec.AssertStatus(t, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "https://app.fyndfluencer.test/auth/complete") {
		t.Errorf("location: %q", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("no session cookie set")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := f.users.Get(ctx, "google:sub-123")
	if err != nil || u == nil {
		t.Fatalf("user not provisioned: %v", err)
	}
	if u.UserType != models.UserTypeInfluencer {
		t.Errorf("user type: %q", u.UserType)
	}

	inf, err := f.influencers.Get(ctx, "google:sub-123")
	if err != nil {
		t.Fatalf("influencer profile not provisioned: %v", err)
	}
	if inf.UserID != "google:sub-123" {
		t.Errorf("influencer user id: %q", inf.UserID)
	}
}

func TestHandleCallback_StateIsSingleUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	router := authsocial.Routes(f.handler)

	state := startFlow(t, router, "google")
	target := "/google/callback?state=" + url.QueryEscape(state) + "&code=good-code"

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", target))
	rec.AssertStatus(t, http.StatusSeeOther)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", target))
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=invalid_state") {
		t.Errorf("replayed state accepted: %q", loc)
	}
}

func TestHandleCallback_StateIsProviderBound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	router := authsocial.Routes(f.handler)

	state := startFlow(t, router, "google")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET",
		"/facebook/callback?state="+url.QueryEscape(state)+"&code=good-code"))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=invalid_state") {
		t.Errorf("cross-provider state accepted: %q", loc)
	}
}

func TestHandleCallback_WrongAccountKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	router := authsocial.Routes(f.handler)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	err := f.users.Put(ctx, models.User{
		ID:             "google:sub-123",
		Email:          "creator@gmail.com",
		DisplayName:    "Now A Brand",
		UserType:       models.UserTypeBrand,
		OrganizationID: "google:sub-123",
		Role:           models.RoleOwner,
		AuthProvider:   models.ProviderEmail,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	state := startFlow(t, router, "google")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET",
		"/google/callback?state="+url.QueryEscape(state)+"&code=good-code"))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=wrong_account_kind") {
		t.Errorf("location: %q", loc)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("session cookie set for rejected sign-in")
	}
}

func TestHandleCallback_ConsentDenied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	router := authsocial.Routes(f.handler)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/google/callback?error=access_denied"))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=consent_denied") {
		t.Errorf("location: %q", loc)
	}
}

func TestHandleCallback_BadCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	router := authsocial.Routes(f.handler)

	state := startFlow(t, router, "google")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET",
		"/google/callback?state="+url.QueryEscape(state)+"&code=bad-code"))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=token_exchange") {
		t.Errorf("location: %q", loc)
	}
}
