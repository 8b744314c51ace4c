package userstore

// Terminology: User Identifiers
//   - UserID / userID / _id: the identity-provider subject ID
//     ("google:<sub>", "facebook:<id>", or a UUID for email/password
//     accounts). Subject IDs are strings, not ObjectIDs, so the same account
//     maps to the same document across logins.

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/obakengmog/fyndfluencer/internal/app/system/normalize"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when creating a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadUserType    = errors.New(`user type must be "influencer"|"brand"|"agency"`)
	errBadProvider    = errors.New(`auth provider must be "email"|"google"|"facebook"`)
	errNoID           = errors.New("user id is required")
)

// EnsureIndexes creates the email and organization lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "organization_id", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Get loads a user by subject ID. Returns (nil, nil) when the user does not
// exist, so callers can branch on first login without error inspection.
func (s *Store) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email. Returns (nil, nil) if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		return models.User{}, errNoID
	}

	u.Email = normalize.Email(u.Email)
	u.DisplayName = normalize.Name(u.DisplayName)
	u.DisplayNameCI = text.Fold(u.DisplayName)
	u.UserType = normalize.UserType(u.UserType)
	u.AuthProvider = normalize.Provider(u.AuthProvider)

	if !models.IsValidUserType(u.UserType) {
		return models.User{}, errBadUserType
	}
	if !models.IsValidAuthProvider(u.AuthProvider) {
		return models.User{}, errBadProvider
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.LastLoginAt.IsZero() {
		u.LastLoginAt = now
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Put writes the full user document keyed by subject ID, creating it when
// absent. Concurrent first logins for the same subject race benignly: both
// writes carry the same identity, so last write wins.
func (s *Store) Put(ctx context.Context, u models.User) error {
	if u.ID == "" {
		return errNoID
	}

	u.Email = normalize.Email(u.Email)
	u.DisplayName = normalize.Name(u.DisplayName)
	u.DisplayNameCI = text.Fold(u.DisplayName)
	u.UserType = normalize.UserType(u.UserType)
	u.AuthProvider = normalize.Provider(u.AuthProvider)

	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": u.ID}, u, opts)
	return err
}

// TouchLogin refreshes the mutable login fields on an existing user without
// disturbing onboarding state. Used on every repeat login.
func (s *Store) TouchLogin(ctx context.Context, id, displayName, photoURL string, emailVerified bool) error {
	now := time.Now().UTC()
	set := bson.M{
		"last_login_at":  now,
		"updated_at":     now,
		"email_verified": emailVerified,
	}
	if displayName != "" {
		set["display_name"] = normalize.Name(displayName)
		set["display_name_ci"] = text.Fold(normalize.Name(displayName))
	}
	if photoURL != "" {
		set["photo_url"] = photoURL
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetOrganization links a user to an organization with the given role.
func (s *Store) SetOrganization(ctx context.Context, id, orgID, role string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"organization_id": orgID,
		"role":            normalize.Role(role),
		"updated_at":      time.Now().UTC(),
	}})
	return err
}

// SetOnboarding updates the user's onboarding progress. A completed flag of
// true also clears the step counter.
func (s *Store) SetOnboarding(ctx context.Context, id string, completed bool, step int) error {
	set := bson.M{
		"onboarding_completed": completed,
		"updated_at":           time.Now().UTC(),
	}
	if completed {
		set["onboarding_step"] = 0
	} else {
		set["onboarding_step"] = step
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// MarkEmailVerified flags the user's email as verified.
func (s *Store) MarkEmailVerified(ctx context.Context, id string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"email_verified": true,
		"updated_at":     time.Now().UTC(),
	}})
	return err
}

// Delete removes a user document. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
