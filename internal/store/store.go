// Package store archives crawled listings in SQLite, keyed by listing
// id, so repeated crawls track first and last observation times.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ofiscan/ofiscan/internal/listing"
	"github.com/ofiscan/ofiscan/internal/logger"
)

// ErrNoListingID marks a record that cannot be stored because it lacks
// a listing id to key on.
var ErrNoListingID = errors.New("record has no listing id")

const schema = `
CREATE TABLE IF NOT EXISTS listings (
	id         TEXT PRIMARY KEY,
	url        TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL DEFAULT '',
	price      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	data       TEXT NOT NULL,
	first_seen TEXT NOT NULL,
	last_seen  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_last_seen ON listings(last_seen);
`

// Row is one stored listing. Data holds the full record as JSON exactly
// as the crawl serialised it; the scalar columns exist for querying.
type Row struct {
	ID        string
	URL       string
	Title     string
	Category  string
	Price     string
	Phone     string
	Data      []byte
	FirstSeen time.Time
	LastSeen  time.Time
}

// Store is a SQLite-backed archive of crawled listings.
type Store struct {
	db *sql.DB
}

// Open opens, and if needed creates, the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func save(ctx context.Context, e execer, rec listing.Record) error {
	id, _ := rec.Fields.Get(listing.KeyListingID)
	if id == "" {
		return ErrNoListingID
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", id, err)
	}

	get := func(key string) string {
		v, _ := rec.Fields.Get(key)
		return v
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = e.ExecContext(ctx, `
		INSERT INTO listings (id, url, title, category, price, phone, data, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url      = excluded.url,
			title    = excluded.title,
			category = excluded.category,
			price    = excluded.price,
			phone    = excluded.phone,
			data     = excluded.data,
			last_seen = excluded.last_seen`,
		id, get(listing.KeyURL), get(listing.KeyTitle), get(listing.KeyCategory),
		get(listing.KeyPrice), rec.Phone, string(data), now, now)
	if err != nil {
		return fmt.Errorf("saving listing %s: %w", id, err)
	}
	return nil
}

// Save upserts one record. The first_seen stamp survives re-crawls;
// every other column tracks the latest observation.
func (s *Store) Save(ctx context.Context, rec listing.Record) error {
	return save(ctx, s.db, rec)
}

// SaveAll upserts a batch inside one transaction and returns how many
// records were written. Records without a listing id are skipped rather
// than failing the batch.
func (s *Store) SaveAll(ctx context.Context, records []listing.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	saved := 0
	for _, rec := range records {
		err := save(ctx, tx, rec)
		if errors.Is(err, ErrNoListingID) {
			logger.Warn("record skipped", "error", err)
			continue
		}
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	logger.Debug("records stored", "count", saved)
	return saved, nil
}

// Get returns one stored listing by id. The caller can test the
// wrapped error against sql.ErrNoRows for absence.
func (s *Store) Get(ctx context.Context, id string) (Row, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, category, price, phone, data, first_seen, last_seen
		FROM listings WHERE id = ?`, id)

	r, err := scanRow(row)
	if err != nil {
		return Row{}, fmt.Errorf("listing %s: %w", id, err)
	}
	return r, nil
}

// Recent returns the most recently observed listings, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, title, category, price, phone, data, first_seen, last_seen
		FROM listings ORDER BY last_seen DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of stored listings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting listings: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (Row, error) {
	var r Row
	var data, firstSeen, lastSeen string
	if err := sc.Scan(&r.ID, &r.URL, &r.Title, &r.Category, &r.Price,
		&r.Phone, &data, &firstSeen, &lastSeen); err != nil {
		return Row{}, err
	}
	r.Data = []byte(data)
	if t, err := time.Parse(time.RFC3339, firstSeen); err == nil {
		r.FirstSeen = t
	}
	if t, err := time.Parse(time.RFC3339, lastSeen); err == nil {
		r.LastSeen = t
	}
	return r, nil
}
