// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/obakengmog/fyndfluencer/internal/app/system/htmlsanitize"
	"github.com/obakengmog/fyndfluencer/internal/app/system/normalize"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateOrganization = errors.New("an organization with this name already exists")
	ErrNotFound              = errors.New("organization not found")
	ErrMemberExists          = errors.New("user is already a member of this organization")
	errBadType               = errors.New(`organization type must be "brand"|"agency"`)
	errNoOwner               = errors.New("organization must have an owner")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

// EnsureIndexes creates lookup indexes for owner and member queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "members.user_id", Value: 1}}},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new organization. The owner always ends up at members[0]
// with the owner role; other members in the input are preserved after it.
func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if !models.IsOrganizationType(org.Type) {
		return models.Organization{}, errBadType
	}
	if org.OwnerID == "" {
		return models.Organization{}, errNoOwner
	}

	now := time.Now().UTC()
	if org.ID == "" {
		// The owner's subject id doubles as the organization id.
		org.ID = org.OwnerID
	}
	org.Name = htmlsanitize.StripTags(normalize.Name(org.Name))
	org.NameCI = text.Fold(org.Name)
	org.CreatedAt = now
	org.UpdatedAt = now

	members := []models.OrganizationMember{}
	var owner *models.OrganizationMember
	for i := range org.Members {
		m := org.Members[i]
		m.Role = normalize.Role(m.Role)
		m.Email = normalize.Email(m.Email)
		if m.UserID == org.OwnerID {
			m.Role = models.RoleOwner
			owner = &m
			continue
		}
		members = append(members, m)
	}
	if owner == nil {
		owner = &models.OrganizationMember{
			UserID: org.OwnerID,
			Role:   models.RoleOwner,
		}
	}
	if owner.JoinedAt.IsZero() {
		owner.JoinedAt = now
	}
	org.Members = append([]models.OrganizationMember{*owner}, members...)

	if _, err := s.c.InsertOne(ctx, org); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, err
	}
	return org, nil
}

// Get loads an organization by ID. Returns ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetByOwner loads the organization owned by the given user, if any.
// Returns (nil, nil) when the user owns no organization.
func (s *Store) GetByOwner(ctx context.Context, ownerID string) (*models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetByMember loads all organizations the given user belongs to, oldest first.
func (s *Store) GetByMember(ctx context.Context, userID string) ([]models.Organization, error) {
	cursor, err := s.c.Find(ctx, bson.M{"members.user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orgs []models.Organization
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// AddMember appends a member to the organization. Returns ErrMemberExists if
// the user is already in the members array.
func (s *Store) AddMember(ctx context.Context, orgID string, m models.OrganizationMember) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	m.Role = normalize.Role(m.Role)
	m.Email = normalize.Email(m.Email)

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": orgID, "members.user_id": bson.M{"$ne": m.UserID}},
		bson.M{
			"$push": bson.M{"members": m},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the org is missing or the user is already a member.
		exists, err := s.exists(ctx, orgID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrMemberExists
	}
	return nil
}

// RemoveMember removes a member from the organization. The owner cannot be
// removed.
func (s *Store) RemoveMember(ctx context.Context, orgID, userID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": orgID, "owner_id": bson.M{"$ne": userID}},
		bson.M{
			"$pull": bson.M{"members": bson.M{"user_id": userID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteOnboarding stores the onboarding payload and stamps its completion
// time. The payload must be internally consistent (type tag matching the
// populated variant).
func (s *Store) CompleteOnboarding(ctx context.Context, orgID string, ob models.OrganizationOnboarding) error {
	if err := ob.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	ob.CompletedAt = now

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": orgID}, bson.M{"$set": bson.M{
		"onboarding_data": ob,
		"updated_at":      now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddClientBrand links a client brand organization to an agency. Adding the
// same brand twice is a no-op.
func (s *Store) AddClientBrand(ctx context.Context, agencyOrgID, brandOrgID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": agencyOrgID, "type": models.UserTypeAgency},
		bson.M{
			"$addToSet": bson.M{"client_brand_ids": brandOrgID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSubscription records the organization's subscription reference.
func (s *Store) SetSubscription(ctx context.Context, orgID, subscriptionID string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": orgID}, bson.M{"$set": bson.M{
		"subscription_id": subscriptionID,
		"updated_at":      time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
