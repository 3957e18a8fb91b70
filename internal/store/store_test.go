package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ofiscan/ofiscan/internal/listing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return s
}

func storedRecord(id, price string) listing.Record {
	rec := listing.Merge(listing.Stub{
		ID:    id,
		URL:   "https://ofis.az/elan/item-" + id + ".html",
		Title: "Item " + id,
		Price: price,
	}, listing.Detail{})
	return rec
}

// --- Store Tests ---

func TestStore_SaveAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	rec := storedRecord("77324", "250 AZN")
	rec.Phone = "994501234567"
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	row, err := s.Get(ctx, "77324")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if row.ID != "77324" {
		t.Errorf("id = %q, want 77324", row.ID)
	}
	if row.Title != "Item 77324" {
		t.Errorf("title = %q", row.Title)
	}
	if row.Price != "250 AZN" {
		t.Errorf("price = %q", row.Price)
	}
	if row.Phone != "994501234567" {
		t.Errorf("phone = %q", row.Phone)
	}
	if !strings.Contains(string(row.Data), `"listing_id":"77324"`) {
		t.Errorf("data payload missing listing_id: %s", row.Data)
	}
	if row.FirstSeen.IsZero() || row.LastSeen.IsZero() {
		t.Error("expected observation stamps to be set")
	}
}

func TestStore_Get_Missing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestStore_Save_UpsertKeepsFirstSeen(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, storedRecord("1", "100 AZN")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Age the stored row so the re-crawl's stamps are distinguishable.
	old := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(`UPDATE listings SET first_seen = ?, last_seen = ?`, old, old); err != nil {
		t.Fatalf("aging row: %v", err)
	}

	if err := s.Save(ctx, storedRecord("1", "95 AZN")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", n)
	}

	row, err := s.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if row.Price != "95 AZN" {
		t.Errorf("expected refreshed price, got %q", row.Price)
	}
	if time.Since(row.FirstSeen) < 24*time.Hour {
		t.Errorf("first_seen was overwritten: %v", row.FirstSeen)
	}
	if time.Since(row.LastSeen) > time.Minute {
		t.Errorf("last_seen was not refreshed: %v", row.LastSeen)
	}
}

func TestStore_Save_RequiresListingID(t *testing.T) {
	s := setupTestStore(t)

	var rec listing.Record
	rec.Fields.Set("title", "orphan")
	err := s.Save(context.Background(), rec)
	if !errors.Is(err, ErrNoListingID) {
		t.Errorf("expected ErrNoListingID, got %v", err)
	}
}

func TestStore_SaveAll(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var orphan listing.Record
	orphan.Fields.Set("title", "no id")

	records := []listing.Record{
		storedRecord("1", "100 AZN"),
		orphan,
		storedRecord("2", "200 AZN"),
	}

	saved, err := s.SaveAll(ctx, records)
	if err != nil {
		t.Fatalf("SaveAll() error: %v", err)
	}
	if saved != 2 {
		t.Errorf("expected 2 saved, got %d", saved)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
}

func TestStore_Recent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		if err := s.Save(ctx, storedRecord(id, "")); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}
	// Push listing 2 into the past.
	old := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(`UPDATE listings SET last_seen = ? WHERE id = '2'`, old); err != nil {
		t.Fatalf("aging row: %v", err)
	}

	rows, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.ID == "2" {
			t.Errorf("expected the aged listing to fall outside the limit, got %v", rows)
		}
	}
}
