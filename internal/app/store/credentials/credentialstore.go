// internal/app/store/credentials/credentialstore.go
package credentialstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/obakengmog/fyndfluencer/internal/app/system/normalize"
)

var (
	// ErrDuplicateEmail is returned when a credential already exists for the email.
	ErrDuplicateEmail = errors.New("a credential for this email already exists")
	// ErrNotFound is returned when no credential exists.
	ErrNotFound = errors.New("credential not found")
)

// Credential is one email/password identity. The _id doubles as the account's
// subject ID, so the users collection keys off it directly.
type Credential struct {
	ID            string    `bson:"_id"`
	Email         string    `bson:"email"`
	PasswordHash  string    `bson:"password_hash"`
	DisplayName   string    `bson:"display_name"`
	EmailVerified bool      `bson:"email_verified"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// Store manages password credentials.
type Store struct {
	c *mongo.Collection
}

// New creates a credential Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("credentials")}
}

// EnsureIndexes creates the unique email index that enforces one credential
// per address.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_credentials_email_unique"),
	})
	return err
}

// Create inserts a new credential with a generated subject ID. Returns
// ErrDuplicateEmail when the email is taken; the unique index makes this
// race-safe.
func (s *Store) Create(ctx context.Context, email, passwordHash, displayName string) (Credential, error) {
	now := time.Now().UTC()
	cred := Credential{
		ID:           uuid.NewString(),
		Email:        normalize.Email(email),
		PasswordHash: passwordHash,
		DisplayName:  normalize.Name(displayName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, cred); err != nil {
		if wafflemongo.IsDup(err) {
			return Credential{}, ErrDuplicateEmail
		}
		return Credential{}, err
	}
	return cred, nil
}

// GetByEmail loads a credential by normalized email. Returns (nil, nil) when
// absent so login can treat unknown email and wrong password identically.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	var cred Credential
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&cred)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Get loads a credential by subject ID.
func (s *Store) Get(ctx context.Context, id string) (*Credential, error) {
	var cred Credential
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cred)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// SetPassword replaces the stored password hash.
func (s *Store) SetPassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkEmailVerified flags the credential's email as verified.
func (s *Store) MarkEmailVerified(ctx context.Context, id string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"email_verified": true,
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a credential by subject ID.
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
