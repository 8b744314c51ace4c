package loginstore_test

import (
	"net/http/httptest"
	"testing"
	"time"

	loginstore "github.com/obakengmog/fyndfluencer/internal/app/store/logins"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
	"github.com/obakengmog/fyndfluencer/internal/testutil"
)

func TestStore_Create_StampsCreatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Create(ctx, models.LoginRecord{
		UserID:   "google:sub-1",
		IP:       "203.0.113.9",
		Provider: models.ProviderGoogle,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	recs, err := store.Recent(ctx, "google:sub-1", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records: got %d, want 1", len(recs))
	}
	if recs[0].CreatedAt.IsZero() {
		t.Error("created_at not stamped")
	}
	if recs[0].Provider != models.ProviderGoogle {
		t.Errorf("provider: got %q", recs[0].Provider)
	}
}

func TestStore_CreateFrom_ExtractsClientIP(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	r.RemoteAddr = "10.0.0.1:4321"

	if err := store.CreateFrom(ctx, r, "cred-1", models.ProviderEmail); err != nil {
		t.Fatalf("CreateFrom failed: %v", err)
	}

	recs, err := store.Recent(ctx, "cred-1", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records: got %d, want 1", len(recs))
	}
	if recs[0].IP != "198.51.100.7" {
		t.Errorf("ip: got %q, want first X-Forwarded-For entry", recs[0].IP)
	}
}

func TestStore_Recent_NewestFirstAndScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		err := store.Create(ctx, models.LoginRecord{
			UserID:    "google:sub-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Provider:  models.ProviderGoogle,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := store.Create(ctx, models.LoginRecord{
		UserID:   "facebook:other",
		Provider: models.ProviderFacebook,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	recs, err := store.Recent(ctx, "google:sub-1", 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records: got %d, want 2", len(recs))
	}
	if !recs[0].CreatedAt.After(recs[1].CreatedAt) {
		t.Error("records not sorted newest first")
	}
	for _, rec := range recs {
		if rec.UserID != "google:sub-1" {
			t.Errorf("foreign record returned: %+v", rec)
		}
	}
}
