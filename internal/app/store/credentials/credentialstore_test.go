package credentialstore_test

import (
	"errors"
	"testing"

	credentialstore "github.com/obakengmog/fyndfluencer/internal/app/store/credentials"
	"github.com/obakengmog/fyndfluencer/internal/testutil"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credentialstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, " Jordan@Acme.IO ", "hash-1", "Jordan Lee")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated subject id")
	}
	if created.Email != "jordan@acme.io" {
		t.Errorf("email not normalized: %q", created.Email)
	}
	if created.EmailVerified {
		t.Error("new credential should start unverified")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.PasswordHash != "hash-1" {
		t.Errorf("password hash: %q", got.PasswordHash)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, credentialstore.ErrNotFound) {
		t.Errorf("Get absent: got %v, want ErrNotFound", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credentialstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	if _, err := store.Create(ctx, "jordan@acme.io", "hash-1", "Jordan Lee"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, "JORDAN@ACME.IO", "hash-2", "Impostor")
	if !errors.Is(err, credentialstore.ErrDuplicateEmail) {
		t.Fatalf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credentialstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "jordan@acme.io", "hash-1", "Jordan Lee")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, " Jordan@ACME.io ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("lookup by denormalized email failed: %+v", got)
	}

	none, err := store.GetByEmail(ctx, "nobody@acme.io")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for unknown email, got %+v", none)
	}
}

func TestStore_SetPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credentialstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "jordan@acme.io", "hash-1", "Jordan Lee")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetPassword(ctx, created.ID, "hash-2"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	got, _ := store.Get(ctx, created.ID)
	if got.PasswordHash != "hash-2" {
		t.Errorf("password hash not replaced: %q", got.PasswordHash)
	}

	if err := store.SetPassword(ctx, "missing", "hash-3"); !errors.Is(err, credentialstore.ErrNotFound) {
		t.Errorf("absent credential: got %v, want ErrNotFound", err)
	}
}

func TestStore_MarkEmailVerified(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credentialstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "jordan@acme.io", "hash-1", "Jordan Lee")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.MarkEmailVerified(ctx, created.ID); err != nil {
		t.Fatalf("MarkEmailVerified failed: %v", err)
	}
	got, _ := store.Get(ctx, created.ID)
	if !got.EmailVerified {
		t.Error("credential not marked verified")
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credentialstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "jordan@acme.io", "hash-1", "Jordan Lee")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}
}
