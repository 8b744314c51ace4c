package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/normalize"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request,
// so role and organization changes take effect without re-login.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchSessionUser retrieves a user by subject ID. Returns (nil, nil) when
// the user is not found so the middleware falls back to session values.
func (f *Fetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":             1,
		"display_name":    1,
		"email":           1,
		"user_type":       1,
		"role":            1,
		"organization_id": 1,
	})

	err := f.users.FindOne(ctx, bson.M{"_id": userID}, proj).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &auth.SessionUser{
		ID:             u.ID,
		Name:           u.DisplayName,
		Email:          u.Email,
		UserType:       normalize.UserType(u.UserType),
		Role:           normalize.Role(u.Role),
		OrganizationID: u.OrganizationID,
	}, nil
}
