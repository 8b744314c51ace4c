// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts pre-built domain documents directly into the test
// database, bypassing the stores, so tests can stage arbitrary states.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateInfluencerUser inserts an influencer-typed user with its companion
// profile, mirroring what first-login provisioning produces.
func (f *Fixtures) CreateInfluencerUser(ctx context.Context, subjectID, email, displayName, provider string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:            subjectID,
		Email:         email,
		DisplayName:   displayName,
		DisplayNameCI: text.Fold(displayName),
		UserType:      models.UserTypeInfluencer,
		AuthProvider:  provider,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
		LastLoginAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create influencer user: %v", err)
	}

	inf := models.Influencer{
		ID:     subjectID,
		UserID: subjectID,
		Profile: models.InfluencerProfile{
			DisplayName: displayName,
		},
		Metrics: models.InfluencerMetrics{
			Tier: models.TierNano,
		},
		RateCard:  models.RateCard{Currency: "USD"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("influencers").InsertOne(ctx, inf); err != nil {
		f.t.Fatalf("failed to create influencer profile: %v", err)
	}

	return user
}

// CreateOrganizationAccount inserts a brand or agency owner user with its
// organization, mirroring what registration produces. The owner's subject id
// doubles as the organization id.
func (f *Fixtures) CreateOrganizationAccount(ctx context.Context, subjectID, email, displayName, orgType, orgName string) (models.User, models.Organization) {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:      subjectID,
		Type:    orgType,
		Name:    orgName,
		NameCI:  text.Fold(orgName),
		OwnerID: subjectID,
		Members: []models.OrganizationMember{{
			UserID:      subjectID,
			Email:       email,
			DisplayName: displayName,
			Role:        models.RoleOwner,
			JoinedAt:    now,
			InvitedBy:   subjectID,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create organization: %v", err)
	}

	user := models.User{
		ID:             subjectID,
		Email:          email,
		DisplayName:    displayName,
		DisplayNameCI:  text.Fold(displayName),
		UserType:       orgType,
		OrganizationID: subjectID,
		Role:           models.RoleOwner,
		AuthProvider:   models.ProviderEmail,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastLoginAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create organization owner: %v", err)
	}

	return user, org
}

// CreateBrandAccount inserts a brand owner with its organization.
func (f *Fixtures) CreateBrandAccount(ctx context.Context, subjectID, email, displayName, orgName string) (models.User, models.Organization) {
	f.t.Helper()
	return f.CreateOrganizationAccount(ctx, subjectID, email, displayName, models.UserTypeBrand, orgName)
}

// CreateAgencyAccount inserts an agency owner with its organization.
func (f *Fixtures) CreateAgencyAccount(ctx context.Context, subjectID, email, displayName, orgName string) (models.User, models.Organization) {
	f.t.Helper()
	return f.CreateOrganizationAccount(ctx, subjectID, email, displayName, models.UserTypeAgency, orgName)
}

// CreateTeamMember inserts a non-owner user linked to an existing
// organization and appends them to its member list.
func (f *Fixtures) CreateTeamMember(ctx context.Context, subjectID, email, displayName, orgID, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:             subjectID,
		Email:          email,
		DisplayName:    displayName,
		DisplayNameCI:  text.Fold(displayName),
		UserType:       models.UserTypeBrand,
		OrganizationID: orgID,
		Role:           role,
		AuthProvider:   models.ProviderEmail,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastLoginAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create team member: %v", err)
	}

	member := models.OrganizationMember{
		UserID:      subjectID,
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		JoinedAt:    now,
		InvitedBy:   orgID,
	}
	_, err := f.db.Collection("organizations").UpdateOne(ctx,
		bson.M{"_id": orgID},
		bson.M{"$push": bson.M{"members": member}})
	if err != nil {
		f.t.Fatalf("failed to append team member: %v", err)
	}

	return user
}
