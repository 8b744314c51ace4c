package influencers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	"github.com/obakengmog/fyndfluencer/internal/app/features/influencers"
	influencerstore "github.com/obakengmog/fyndfluencer/internal/app/store/influencers"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
	"github.com/obakengmog/fyndfluencer/internal/testutil"
)

type fixture struct {
	store  *influencerstore.Store
	router http.Handler
}

func newFixture(t *testing.T, db *mongo.Database) *fixture {
	t.Helper()

	store := influencerstore.New(db)
	sessionMgr, err := auth.NewSessionManager(
		"0123456789abcdef0123456789abcdef", "test_session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := influencers.NewHandler(store, nil, apierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop())
	return &fixture{store: store, router: influencers.Routes(h, sessionMgr)}
}

func creatorSession(id string) testutil.TestUser {
	return testutil.TestUser{
		ID: id, Name: "Thandi M", Email: "creator@gmail.com",
		UserType: models.UserTypeInfluencer,
	}
}

func brandSession() testutil.TestUser {
	return testutil.TestUser{
		ID: "cred-owner@acme.com", UserType: models.UserTypeBrand,
		Role: models.RoleOwner, OrganizationID: "cred-owner@acme.com",
	}
}

func seedCreator(t *testing.T, f *fixture, id, name string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := f.store.Create(ctx, id, name); err != nil {
		t.Fatalf("seed creator: %v", err)
	}
}

func TestHandleGetOwn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	seedCreator(t, f, "google:sub-1", "Thandi M")

	req := testutil.NewAuthenticatedRequest("GET", "/me", creatorSession("google:sub-1"))
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"tier":"nano"`)
}

func TestHandleGetOwn_NoProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)

	req := testutil.NewAuthenticatedRequest("GET", "/me", creatorSession("google:sub-1"))
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleGetOwn_BrandForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)

	req := testutil.NewAuthenticatedRequest("GET", "/me", brandSession())
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleUpdateProfile_RefreshesSearchFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	seedCreator(t, f, "google:sub-1", "Thandi M")

	body := `{
		"display_name": "Thandi M",
		"bio": "Cape Town creator <script>alert(1)</script>",
		"country": "South Africa",
		"city": "Cape Town",
		"languages": ["en", "xh"],
		"niches": ["Fashion", "Beauty"]
	}`
	req := testutil.NewJSONRequest("PUT", "/me/profile", body)
	req = testutil.WithUser(req, creatorSession("google:sub-1"))
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	inf, err := f.store.GetByUser(ctx, "google:sub-1")
	if err != nil || inf == nil {
		t.Fatalf("reload profile: %v", err)
	}
	if len(inf.SearchableNiches) != 2 || inf.SearchableNiches[0] != "fashion" {
		t.Errorf("searchable niches: got %v", inf.SearchableNiches)
	}
	if inf.SearchableCountry != "south africa" {
		t.Errorf("searchable country: got %q", inf.SearchableCountry)
	}
	if strings.Contains(inf.Profile.Bio, "<script") {
		t.Errorf("bio not sanitized: %q", inf.Profile.Bio)
	}
}

func TestHandleUpdateProfile_RequiresDisplayName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	seedCreator(t, f, "google:sub-1", "Thandi M")

	req := testutil.NewJSONRequest("PUT", "/me/profile", `{"bio":"hi"}`)
	req = testutil.WithUser(req, creatorSession("google:sub-1"))
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleSetSocialAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	seedCreator(t, f, "google:sub-1", "Thandi M")

	body := `{"handle":"@thandi","profile_url":"https://instagram.com/thandi","followers":12000,"engagement_rate":4.2}`
	req := testutil.NewJSONRequest("PUT", "/me/social/instagram", body)
	req = testutil.WithUser(req, creatorSession("google:sub-1"))
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	inf, err := f.store.GetByUser(ctx, "google:sub-1")
	if err != nil || inf == nil {
		t.Fatalf("reload profile: %v", err)
	}
	ig := inf.SocialAccounts.Instagram
	if ig == nil || ig.Handle != "@thandi" || ig.Followers != 12000 {
		t.Errorf("instagram account: got %+v", ig)
	}
	if ig != nil && ig.Connected {
		t.Error("self-reported account stored as connected")
	}
}

func TestHandleSetSocialAccount_UnknownPlatform(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	seedCreator(t, f, "google:sub-1", "Thandi M")

	req := testutil.NewJSONRequest("PUT", "/me/social/myspace", `{"handle":"@thandi"}`)
	req = testutil.WithUser(req, creatorSession("google:sub-1"))
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleUpdateRateCard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	seedCreator(t, f, "google:sub-1", "Thandi M")

	req := testutil.NewJSONRequest("PUT", "/me/rate-card",
		`{"currency":"ZAR","post":1500,"story":500,"reel":2500,"video":4000}`)
	req = testutil.WithUser(req, creatorSession("google:sub-1"))
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	inf, err := f.store.GetByUser(ctx, "google:sub-1")
	if err != nil || inf == nil {
		t.Fatalf("reload profile: %v", err)
	}
	if inf.RateCard.Currency != "ZAR" || inf.RateCard.Reel != 2500 {
		t.Errorf("rate card: got %+v", inf.RateCard)
	}
}

func TestHandleUpdateRateCard_RejectsNegativeRates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	seedCreator(t, f, "google:sub-1", "Thandi M")

	req := testutil.NewJSONRequest("PUT", "/me/rate-card", `{"post":-10}`)
	req = testutil.WithUser(req, creatorSession("google:sub-1"))
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleSearch_FiltersByNiche(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	seedCreator(t, f, "google:sub-1", "Thandi M")
	seedCreator(t, f, "google:sub-2", "Jabu K")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := f.store.UpdateProfile(ctx, "google:sub-1", models.InfluencerProfile{
		DisplayName: "Thandi M", Country: "South Africa", Niches: []string{"fashion"},
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if err := f.store.UpdateProfile(ctx, "google:sub-2", models.InfluencerProfile{
		DisplayName: "Jabu K", Country: "South Africa", Niches: []string{"gaming"},
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/search?niche=Fashion", brandSession())
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"count":1`)
	rec.AssertContains(t, "google:sub-1")
}

func TestHandleSearch_InfluencerForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)

	req := testutil.NewAuthenticatedRequest("GET", "/search", creatorSession("google:sub-1"))
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)
	seedCreator(t, f, "google:sub-1", "Thandi M")

	req := testutil.NewAuthenticatedRequest("GET", "/google:sub-1", brandSession())
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Thandi M")
}

func TestHandleView_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)

	req := testutil.NewAuthenticatedRequest("GET", "/google:missing", brandSession())
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}
