package userinfo_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	"github.com/obakengmog/fyndfluencer/internal/app/features/userinfo"
	influencerstore "github.com/obakengmog/fyndfluencer/internal/app/store/influencers"
	organizationstore "github.com/obakengmog/fyndfluencer/internal/app/store/organizations"
	userstore "github.com/obakengmog/fyndfluencer/internal/app/store/users"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
	"github.com/obakengmog/fyndfluencer/internal/testutil"
)

type fixture struct {
	users       *userstore.Store
	orgs        *organizationstore.Store
	influencers *influencerstore.Store
	router      http.Handler
}

func newFixture(t *testing.T, db *mongo.Database) *fixture {
	t.Helper()

	f := &fixture{
		users:       userstore.New(db),
		orgs:        organizationstore.New(db),
		influencers: influencerstore.New(db),
	}
	h := userinfo.NewHandler(f.users, f.orgs, f.influencers,
		apierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	f.router = userinfo.Routes(h)
	return f
}

func decodeBody(t *testing.T, rec *testutil.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	return body
}

func TestServeMe_Anonymous(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)

	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, testutil.NewRequest("GET", "/"))
	rec.AssertStatus(t, http.StatusOK)

	body := decodeBody(t, rec)
	if auth, _ := body["authenticated"].(bool); auth {
		t.Error("anonymous request reported authenticated")
	}
	if _, present := body["user"]; present {
		t.Error("anonymous response carries a user document")
	}
}

func TestServeMe_BrandOwnerWithOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	const id = "cred-owner@acme.com"
	now := time.Now().UTC()
	if err := f.users.Put(ctx, models.User{
		ID: id, Email: "owner@acme.com", DisplayName: "Acme Owner",
		UserType: models.UserTypeBrand, OrganizationID: id, Role: models.RoleOwner,
		AuthProvider: models.ProviderEmail, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := f.orgs.Create(ctx, models.Organization{
		ID: id, Type: models.UserTypeBrand, Name: "Acme", OwnerID: id,
		Members: []models.OrganizationMember{{
			UserID: id, Email: "owner@acme.com", DisplayName: "Acme Owner",
			Role: models.RoleOwner, JoinedAt: now, InvitedBy: id,
		}},
	}); err != nil {
		t.Fatalf("seed org: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/", testutil.TestUser{
		ID: id, Name: "Acme Owner", Email: "owner@acme.com",
		UserType: models.UserTypeBrand, Role: models.RoleOwner, OrganizationID: id,
	})
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	body := decodeBody(t, rec)
	if auth, _ := body["authenticated"].(bool); !auth {
		t.Fatal("signed-in request reported unauthenticated")
	}
	user, _ := body["user"].(map[string]any)
	if user == nil || user["email"] != "owner@acme.com" {
		t.Errorf("user document missing or wrong: %v", body["user"])
	}
	org, _ := body["organization"].(map[string]any)
	if org == nil {
		t.Fatal("organization summary missing for brand owner")
	}
	if org["name"] != "Acme" {
		t.Errorf("organization name: got %v", org["name"])
	}
	if count, _ := org["member_count"].(float64); count != 1 {
		t.Errorf("member_count: got %v, want 1", org["member_count"])
	}
	if onboarded, _ := org["onboarded"].(bool); onboarded {
		t.Error("fresh organization reported as onboarded")
	}
	if _, present := org["members"]; present {
		t.Error("organization summary leaks the member roster")
	}
}

func TestServeMe_InfluencerIncludesProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	const id = "google:sub-123"
	now := time.Now().UTC()
	if err := f.users.Put(ctx, models.User{
		ID: id, Email: "creator@gmail.com", DisplayName: "Thandi M",
		UserType: models.UserTypeInfluencer, AuthProvider: models.ProviderGoogle,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := f.influencers.Create(ctx, id, "Thandi M"); err != nil {
		t.Fatalf("seed influencer: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/", testutil.TestUser{
		ID: id, Name: "Thandi M", Email: "creator@gmail.com",
		UserType: models.UserTypeInfluencer,
	})
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	body := decodeBody(t, rec)
	inf, _ := body["influencer"].(map[string]any)
	if inf == nil {
		t.Fatal("influencer document missing")
	}
	if inf["id"] != id {
		t.Errorf("influencer id: got %v, want %q", inf["id"], id)
	}
	if _, present := body["organization"]; present {
		t.Error("influencer response carries an organization")
	}
}

func TestServeMe_StaleSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := newFixture(t, db)

	// Session references a user that no longer exists.
	req := testutil.NewAuthenticatedRequest("GET", "/", testutil.TestUser{
		ID: "cred-gone@acme.com", UserType: models.UserTypeBrand, Role: models.RoleOwner,
	})
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	body := decodeBody(t, rec)
	if auth, _ := body["authenticated"].(bool); auth {
		t.Error("stale session reported authenticated")
	}
}
