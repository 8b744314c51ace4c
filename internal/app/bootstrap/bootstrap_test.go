package bootstrap

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/obakengmog/fyndfluencer/internal/testutil"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "fyndfluencer_test",
		SessionKey:    "0123456789abcdef0123456789abcdef",
	}
}

func TestValidateConfig_Accepts(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("expected config to validate, got %v", err)
	}
}

func TestValidateConfig_RejectsBadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "http://not-a-mongo-uri"
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for non-mongodb URI")
	}
}

func TestValidateConfig_RejectsShortSessionKey(t *testing.T) {
	cfg := validAppConfig()
	cfg.SessionKey = "too-short"
	err := ValidateConfig(nil, cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for short session key")
	}
	if !strings.Contains(err.Error(), "session_key") {
		t.Errorf("error should name session_key, got %v", err)
	}
}

func TestValidateConfig_RejectsHalfConfiguredProvider(t *testing.T) {
	cfg := validAppConfig()
	cfg.GoogleClientID = "client-id-without-secret"
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error when only one half of the Google pair is set")
	}

	cfg = validAppConfig()
	cfg.FacebookClientSecret = "secret-without-id"
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error when only one half of the Facebook pair is set")
	}
}

func TestEnsureSchema_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := EnsureSchema(ctx, nil, validAppConfig(), deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	// Running again must be a no-op, not a duplicate-index error.
	if err := EnsureSchema(ctx, nil, validAppConfig(), deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema is not idempotent: %v", err)
	}
}
