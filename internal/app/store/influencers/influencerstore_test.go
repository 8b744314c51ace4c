package influencerstore_test

import (
	"errors"
	"strings"
	"testing"

	influencerstore "github.com/obakengmog/fyndfluencer/internal/app/store/influencers"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
	"github.com/obakengmog/fyndfluencer/internal/testutil"
)

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := influencerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "google:sub-1", "Thandi M")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID != "google:sub-1" || created.UserID != "google:sub-1" {
		t.Errorf("ids: %q / %q, both should equal the subject id", created.ID, created.UserID)
	}
	if created.Metrics.Tier != models.TierNano {
		t.Errorf("tier: got %q, want nano", created.Metrics.Tier)
	}
	if created.Metrics.TotalFollowers != 0 || created.Metrics.AverageEngagement != 0 {
		t.Error("metrics should start at zero")
	}
	if created.RateCard.Currency != "USD" {
		t.Errorf("currency: got %q, want USD", created.RateCard.Currency)
	}
	if created.Verified || created.Featured {
		t.Error("flags should start false")
	}
}

func TestStore_Create_RaceAdoptsExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := influencerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Create(ctx, "google:sub-2", "Original")
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// A losing concurrent create adopts the winner's document.
	second, err := store.Create(ctx, "google:sub-2", "Latecomer")
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if second.Profile.DisplayName != first.Profile.DisplayName {
		t.Errorf("loser did not adopt the existing profile: %q", second.Profile.DisplayName)
	}
}

func TestStore_Create_RequiresUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := influencerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "", "Nobody"); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestStore_GetByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := influencerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "google:sub-3", "Thandi M"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByUser(ctx, "google:sub-3")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if got == nil {
		t.Fatal("profile missing")
	}

	none, err := store.GetByUser(ctx, "google:nobody")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for absent profile, got %+v", none)
	}

	if _, err := store.Get(ctx, "google:nobody"); !errors.Is(err, influencerstore.ErrNotFound) {
		t.Errorf("Get absent: got %v, want ErrNotFound", err)
	}
}

func TestStore_UpdateProfile_RefreshesSearchFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := influencerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "google:sub-4", "Thandi M"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := store.UpdateProfile(ctx, "google:sub-4", models.InfluencerProfile{
		DisplayName: "Thandi <script>alert(1)</script> M",
		Bio:         "<p>Beauty and <b>travel</b> content.</p><script>x</script>",
		Country:     "South Africa",
		Niches:      []string{"Beauty", "Travel", ""},
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByUser(ctx, "google:sub-4")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if strings.Contains(got.Profile.DisplayName, "<") || strings.Contains(got.Profile.DisplayName, "script") {
		t.Errorf("display name not stripped: %q", got.Profile.DisplayName)
	}
	if got.Profile.Bio != "<p>Beauty and <b>travel</b> content.</p>" {
		t.Errorf("bio not sanitized: %q", got.Profile.Bio)
	}
	if len(got.SearchableNiches) != 2 {
		t.Fatalf("searchable niches: %v", got.SearchableNiches)
	}
	if got.SearchableNiches[0] != "beauty" || got.SearchableNiches[1] != "travel" {
		t.Errorf("niches not folded: %v", got.SearchableNiches)
	}
	if got.SearchableCountry != "south africa" {
		t.Errorf("country not folded: %q", got.SearchableCountry)
	}

	err = store.UpdateProfile(ctx, "google:nobody", models.InfluencerProfile{DisplayName: "X"})
	if !errors.Is(err, influencerstore.ErrNotFound) {
		t.Errorf("absent profile: got %v, want ErrNotFound", err)
	}
}

func TestStore_SetSocialAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := influencerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "google:sub-5", "Thandi M"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := store.SetSocialAccount(ctx, "google:sub-5", models.PlatformInstagram, models.SocialAccount{
		Platform:  models.PlatformInstagram,
		Handle:    "thandi.m",
		Followers: 12000,
		Connected: true,
	})
	if err != nil {
		t.Fatalf("SetSocialAccount failed: %v", err)
	}

	got, _ := store.GetByUser(ctx, "google:sub-5")
	if got.SocialAccounts.Instagram == nil {
		t.Fatal("instagram account not stored")
	}
	if got.SocialAccounts.Instagram.Handle != "thandi.m" {
		t.Errorf("handle: %q", got.SocialAccounts.Instagram.Handle)
	}

	if err := store.SetSocialAccount(ctx, "google:sub-5", "myspace", models.SocialAccount{}); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestStore_UpdateMetricsAndRateCard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := influencerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "google:sub-6", "Thandi M"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := store.UpdateMetrics(ctx, "google:sub-6", models.InfluencerMetrics{
		TotalFollowers:    54000,
		AverageEngagement: 4.2,
		Tier:              models.TierMicro,
	})
	if err != nil {
		t.Fatalf("UpdateMetrics failed: %v", err)
	}

	if err := store.UpdateMetrics(ctx, "google:sub-6", models.InfluencerMetrics{Tier: "colossal"}); err == nil {
		t.Error("expected error for unknown tier")
	}

	if err := store.UpdateRateCard(ctx, "google:sub-6", models.RateCard{Post: 150}); err != nil {
		t.Fatalf("UpdateRateCard failed: %v", err)
	}

	got, _ := store.GetByUser(ctx, "google:sub-6")
	if got.Metrics.Tier != models.TierMicro || got.Metrics.TotalFollowers != 54000 {
		t.Errorf("metrics: %+v", got.Metrics)
	}
	if got.RateCard.Currency != "USD" {
		t.Errorf("currency not defaulted: %q", got.RateCard.Currency)
	}
	if got.RateCard.Post != 150 {
		t.Errorf("post rate: %v", got.RateCard.Post)
	}
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := influencerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seed := []struct {
		id      string
		niche   string
		country string
	}{
		{"google:a", "Beauty", "South Africa"},
		{"google:b", "Beauty", "Kenya"},
		{"google:c", "Gaming", "South Africa"},
	}
	for _, s := range seed {
		if _, err := store.Create(ctx, s.id, s.id); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := store.UpdateProfile(ctx, s.id, models.InfluencerProfile{
			DisplayName: s.id,
			Country:     s.country,
			Niches:      []string{s.niche},
		}); err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
	}

	got, err := store.Search(ctx, "beauty", "", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("beauty search: got %d results", len(got))
	}

	got, err = store.Search(ctx, "Beauty", "SOUTH AFRICA", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "google:a" {
		t.Errorf("combined search: %+v", got)
	}

	got, err = store.Search(ctx, "", "", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("open search: got %d results", len(got))
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := influencerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "google:sub-7", "Thandi M"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, "google:sub-7")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}
}
