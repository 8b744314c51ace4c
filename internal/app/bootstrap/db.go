// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	auditstore "github.com/obakengmog/fyndfluencer/internal/app/store/audit"
	credentialstore "github.com/obakengmog/fyndfluencer/internal/app/store/credentials"
	emailverifystore "github.com/obakengmog/fyndfluencer/internal/app/store/emailverify"
	influencerstore "github.com/obakengmog/fyndfluencer/internal/app/store/influencers"
	loginstore "github.com/obakengmog/fyndfluencer/internal/app/store/logins"
	notificationstore "github.com/obakengmog/fyndfluencer/internal/app/store/notifications"
	oauthstatestore "github.com/obakengmog/fyndfluencer/internal/app/store/oauthstate"
	organizationstore "github.com/obakengmog/fyndfluencer/internal/app/store/organizations"
	userstore "github.com/obakengmog/fyndfluencer/internal/app/store/users"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
)

// ConnectDB establishes the MongoDB connection used by every store.
// The client is verified with a ping before startup continues so a bad
// URI fails fast instead of on the first request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store depends on. Each store
// owns its own index definitions; this just walks them once at startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	indexed := []struct {
		name   string
		ensure func(context.Context) error
	}{
		{"users", userstore.New(db).EnsureIndexes},
		{"credentials", credentialstore.New(db).EnsureIndexes},
		{"organizations", organizationstore.New(db).EnsureIndexes},
		{"influencers", influencerstore.New(db).EnsureIndexes},
		{"email_verifications", emailverifystore.New(db, appCfg.EmailVerifyExpiry).EnsureIndexes},
		{"oauth_states", oauthstatestore.New(db).EnsureIndexes},
		{"logins", loginstore.New(db).EnsureIndexes},
		{"notifications", notificationstore.New(db).EnsureIndexes},
		{"audit_events", auditstore.New(db).EnsureIndexes},
	}

	for _, col := range indexed {
		if err := col.ensure(ctx); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", col.name, err)
		}
		logger.Debug("indexes ensured", zap.String("collection", col.name))
	}

	return nil
}
