// internal/app/store/influencers/influencerstore.go
package influencerstore

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
	ErrNotFound = errors.New("influencer profile not found")
	errNoUser   = errors.New("influencer profile must reference a user")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("influencers")}
}

// EnsureIndexes creates the user lookup and search indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "searchable_niches", Value: 1}}},
		{Keys: bson.D{{Key: "searchable_country", Value: 1}}},
		{Keys: bson.D{{Key: "metrics.tier", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a fresh influencer profile with zeroed metrics and an empty
// nano-tier rate card. Called during first-login provisioning.
func (s *Store) Create(ctx context.Context, userID, displayName string) (models.Influencer, error) {
	if userID == "" {
		return models.Influencer{}, errNoUser
	}

	now := time.Now().UTC()
	inf := models.Influencer{
		ID:     userID,
		UserID: userID,
		Profile: models.InfluencerProfile{
			DisplayName: normalize.Name(displayName),
		},
		Metrics: models.InfluencerMetrics{
			Tier: models.TierNano,
		},
		RateCard: models.RateCard{
			Currency: "USD",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, inf); err != nil {
		// Concurrent first logins race to create the same profile. The loser
		// adopts the winner's document.
		if wafflemongo.IsDup(err) {
			existing, gerr := s.GetByUser(ctx, userID)
			if gerr == nil && existing != nil {
				return *existing, nil
			}
		}
		return models.Influencer{}, err
	}
	return inf, nil
}

// Get loads an influencer profile by its document ID.
func (s *Store) Get(ctx context.Context, id string) (*models.Influencer, error) {
	var inf models.Influencer
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inf)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inf, nil
}

// GetByUser loads the influencer profile for a user. Returns (nil, nil) when
// the user has no profile, so provisioning can branch without error
// inspection.
func (s *Store) GetByUser(ctx context.Context, userID string) (*models.Influencer, error) {
	var inf models.Influencer
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&inf)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inf, nil
}

// UpdateProfile replaces the profile section and refreshes the searchable
// denormalizations. The bio may carry limited rich text; everything else is
// stripped to plain text.
func (s *Store) UpdateProfile(ctx context.Context, userID string, p models.InfluencerProfile) error {
	p.DisplayName = htmlsanitize.StripTags(normalize.Name(p.DisplayName))
	p.Bio = htmlsanitize.Sanitize(p.Bio)
	p.Country = htmlsanitize.StripTags(p.Country)
	p.City = htmlsanitize.StripTags(p.City)

	niches := make([]string, 0, len(p.Niches))
	for _, n := range p.Niches {
		if folded := text.Fold(n); folded != "" {
			niches = append(niches, folded)
		}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{
		"profile":            p,
		"searchable_niches":  niches,
		"searchable_country": text.Fold(p.Country),
		"updated_at":         time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSocialAccount attaches or replaces one platform's account details.
func (s *Store) SetSocialAccount(ctx context.Context, userID, platform string, acct models.SocialAccount) error {
	if !models.IsValidPlatform(platform) {
		return errors.New("unknown social platform")
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{
		"social_accounts." + platform: acct,
		"updated_at":                  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMetrics replaces the aggregate metrics section.
func (s *Store) UpdateMetrics(ctx context.Context, userID string, m models.InfluencerMetrics) error {
	if !models.IsValidTier(m.Tier) {
		return errors.New("unknown influencer tier")
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{
		"metrics":    m,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRateCard replaces the rate card.
func (s *Store) UpdateRateCard(ctx context.Context, userID string, rc models.RateCard) error {
	if rc.Currency == "" {
		rc.Currency = "USD"
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{
		"rate_card":  rc,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Search returns verified-first influencer profiles filtered by folded niche
// and country. Empty filters match everything.
func (s *Store) Search(ctx context.Context, niche, country string, limit int64) ([]models.Influencer, error) {
	filter := bson.M{}
	if niche != "" {
		filter["searchable_niches"] = text.Fold(niche)
	}
	if country != "" {
		filter["searchable_country"] = text.Fold(country)
	}

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "verified", Value: -1}, {Key: "metrics.total_followers", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Influencer
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an influencer profile by user ID.
func (s *Store) Delete(ctx context.Context, userID string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
