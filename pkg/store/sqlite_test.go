package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"
)

func testStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCandidate() models.Candidate {
	return models.Candidate{
		ExternalID:    "chip7_portatil-asus-tuf-a15",
		Name:          "Portátil ASUS TUF Gaming A15",
		Price:         999.99,
		OriginalPrice: 1099.99,
		URL:           "https://chip7.pt/portatil-asus-tuf-a15",
		ImageURL:      "https://chip7.pt/img/a15.jpg",
		Retailer:      "Chip7",
		Condition:     models.ConditionNew,
		Availability:  models.AvailabilityAvailable,
		Seller:        "Chip7",
	}
}

func TestUpsertIdempotence(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	c := testCandidate()

	created, updated, err := s.Upsert(ctx, []models.Candidate{c}, c.Retailer)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if created != 1 || updated != 0 {
		t.Fatalf("first upsert: created=%d updated=%d, want 1/0", created, updated)
	}

	first, err := s.FindByExternalID(ctx, c.ExternalID, c.Retailer)
	if err != nil {
		t.Fatalf("lookup after insert failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	c.Price = 949.99
	created, updated, err = s.Upsert(ctx, []models.Candidate{c}, c.Retailer)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if created != 0 || updated != 1 {
		t.Fatalf("second upsert: created=%d updated=%d, want 0/1", created, updated)
	}

	second, err := s.FindByExternalID(ctx, c.ExternalID, c.Retailer)
	if err != nil {
		t.Fatalf("lookup after update failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("update must not change the row id: %d -> %d", first.ID, second.ID)
	}
	if second.Price != 949.99 {
		t.Errorf("price not refreshed: %v", second.Price)
	}
	if !second.LastUpdated.After(first.LastUpdated) {
		t.Errorf("last_updated did not increase: %v -> %v", first.LastUpdated, second.LastUpdated)
	}
}

func TestEvictStale(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	stale := testCandidate()
	pinned := testCandidate()
	pinned.ExternalID = "chip7_rato-logitech-g305"
	pinned.Name = "Rato Logitech G305"
	fresh := testCandidate()
	fresh.ExternalID = "chip7_ssd-kingston-1tb"
	fresh.Name = "SSD Kingston NV2 1TB"

	if _, _, err := s.Upsert(ctx, []models.Candidate{stale, pinned, fresh}, "Chip7"); err != nil {
		t.Fatalf("seed upsert failed: %v", err)
	}

	// Age two rows past the retention window.
	eightDaysAgo := time.Now().UTC().Add(-8 * 24 * time.Hour)
	for _, id := range []string{stale.ExternalID, pinned.ExternalID} {
		if _, err := s.db.Exec(
			`UPDATE products SET last_updated = ? WHERE external_id = ?`, eightDaysAgo, id,
		); err != nil {
			t.Fatalf("aging row failed: %v", err)
		}
	}

	pinnedRow, err := s.FindByExternalID(ctx, pinned.ExternalID, "Chip7")
	if err != nil {
		t.Fatalf("pinned lookup failed: %v", err)
	}
	if err := s.AddFavorite(ctx, 1, pinnedRow.ID); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}

	removed, err := s.EvictStale(ctx, RetentionWindow)
	if err != nil {
		t.Fatalf("EvictStale failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed %d rows, want 1", removed)
	}

	if _, err := s.FindByExternalID(ctx, stale.ExternalID, "Chip7"); err == nil {
		t.Error("stale unfavorited row should be gone")
	}
	if _, err := s.FindByExternalID(ctx, pinned.ExternalID, "Chip7"); err != nil {
		t.Errorf("favorited row should survive eviction: %v", err)
	}
	if _, err := s.FindByExternalID(ctx, fresh.ExternalID, "Chip7"); err != nil {
		t.Errorf("fresh row should survive eviction: %v", err)
	}
}

func TestFilterPersistable(t *testing.T) {
	cands := []models.Candidate{
		{ExternalID: "demo_worten_0", Name: "Demo"},
		{ExternalID: "worten_real-product", Name: "Real"},
		{ExternalID: "demo_chip7_1", Name: "Demo too"},
	}

	kept := FilterPersistable(cands)
	if len(kept) != 1 {
		t.Fatalf("kept %d candidates, want 1", len(kept))
	}
	if kept[0].ExternalID != "worten_real-product" {
		t.Errorf("wrong survivor: %q", kept[0].ExternalID)
	}
}
