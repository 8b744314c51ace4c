package oauthstate_test

import (
	"testing"
	"time"

	"github.com/obakengmog/fyndfluencer/internal/app/store/oauthstate"
	"github.com/obakengmog/fyndfluencer/internal/testutil"
)

func TestStore_SaveAndValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := store.Save(ctx, "state-123", "google", "/dashboard", expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	returnURL, valid, err := store.Validate(ctx, "state-123", "google")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Fatal("expected state to be valid")
	}
	if returnURL != "/dashboard" {
		t.Errorf("return url: got %q, want /dashboard", returnURL)
	}
}

func TestStore_Validate_OneTimeUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := store.Save(ctx, "state-123", "google", "", expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, valid, err := store.Validate(ctx, "state-123", "google")
	if err != nil || !valid {
		t.Fatalf("first validate: valid=%v err=%v", valid, err)
	}

	_, valid, err = store.Validate(ctx, "state-123", "google")
	if err != nil {
		t.Fatalf("second validate errored: %v", err)
	}
	if valid {
		t.Error("state accepted twice")
	}
}

func TestStore_Validate_ProviderIsBound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := store.Save(ctx, "state-123", "google", "", expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A state minted for google cannot complete a facebook callback.
	_, valid, err := store.Validate(ctx, "state-123", "facebook")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("state validated against the wrong provider")
	}

	// The failed attempt must not have consumed the state.
	_, valid, err = store.Validate(ctx, "state-123", "google")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Error("state was consumed by the mismatched attempt")
	}
}

func TestStore_Validate_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, valid, err := store.Validate(ctx, "never-saved", "google")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("unknown state reported valid")
	}
}

func TestStore_Validate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expiresAt := time.Now().UTC().Add(-1 * time.Minute)
	if err := store.Save(ctx, "state-123", "google", "", expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, valid, err := store.Validate(ctx, "state-123", "google")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("expired state reported valid")
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	if err := store.Save(ctx, "stale-1", "google", "", now.Add(-2*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "stale-2", "facebook", "", now.Add(-1*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "fresh", "google", "", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deleted, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted: got %d, want 2", deleted)
	}

	_, valid, err := store.Validate(ctx, "fresh", "google")
	if err != nil || !valid {
		t.Errorf("fresh state should survive cleanup: valid=%v err=%v", valid, err)
	}
}
