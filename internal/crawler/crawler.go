// Package crawler walks the paginated listing index page by page and
// turns each page's previews into fully merged records. Pages are
// strictly sequential; listings within a page are processed by a bounded
// worker pool.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ofiscan/ofiscan/internal/listing"
	"github.com/ofiscan/ofiscan/internal/logger"
)

// Source is the site collaborator the crawler drives. Implementations
// must be safe for concurrent use.
type Source interface {
	// ListPage returns the previews on one index page. An empty result
	// with a nil error is the pagination terminator.
	ListPage(ctx context.Context, start int) ([]listing.Stub, error)

	// Detail returns the full field set behind a listing URL.
	Detail(ctx context.Context, url string) (listing.Detail, error)

	// Phone reveals a listing's phone number.
	Phone(ctx context.Context, params listing.CallParams) (string, error)
}

// Config holds crawl policy.
type Config struct {
	// Pagination
	StartOffset int `validate:"gte=0"` // index cursor of the first page
	PageStride  int `validate:"gte=0"` // index offset step between pages
	MaxPages    int `validate:"gte=0"` // page limit (0 = until an empty page)

	// Concurrency
	Workers int `validate:"gte=0"` // concurrent listing processors per page

	// Pacing
	PageDelay    time.Duration `validate:"gte=0"` // pause between index pages
	ListingDelay time.Duration `validate:"gte=0"` // pause before each listing

	// Phone resolution
	SkipPhones bool // leave phone numbers unrevealed
}

// DefaultConfig returns sensible crawler defaults.
func DefaultConfig() Config {
	return Config{
		PageStride:   4,
		MaxPages:     5,
		Workers:      5,
		PageDelay:    2 * time.Second,
		ListingDelay: 2 * time.Second,
	}
}

var validate = validator.New()

// Validate rejects configs with out-of-range values. Zero values are
// allowed here; New substitutes working fallbacks for them.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid crawl config: %w", err)
	}
	return nil
}

// Crawler orchestrates the crawl.
type Crawler struct {
	source Source
	config Config
}

// New creates a Crawler. Zero config fields fall back to safe values so
// the zero Config is usable.
func New(source Source, cfg Config) *Crawler {
	if cfg.PageStride < 1 {
		cfg.PageStride = DefaultConfig().PageStride
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Crawler{source: source, config: cfg}
}

// Run crawls from the first index page until an empty page, the page
// limit or context cancellation, whichever comes first, and returns
// everything accumulated by then. The only error it reports is the
// context's; fetch failures end pagination but never fail the run.
func (c *Crawler) Run(ctx context.Context) ([]listing.Record, error) {
	cfg := c.config
	logger.Debug("crawl starting",
		"workers", cfg.Workers,
		"start_offset", cfg.StartOffset,
		"max_pages", cfg.MaxPages,
		"page_stride", cfg.PageStride,
		"page_delay", cfg.PageDelay,
		"listing_delay", cfg.ListingDelay,
		"skip_phones", cfg.SkipPhones)

	var records []listing.Record
	pages := 0

	for start := cfg.StartOffset; cfg.MaxPages == 0 || pages < cfg.MaxPages; start += cfg.PageStride {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		page := c.crawlPage(ctx, start)
		pages++

		if page.Empty {
			logger.Info("crawl finished", "pages", pages, "records", len(records))
			return records, ctx.Err()
		}

		records = append(records, page.Records...)
		logger.Info("page done",
			"start", start,
			"records", len(page.Records),
			"total", len(records))

		// Pause before the next page, but not after the last one.
		if cfg.PageDelay > 0 && (cfg.MaxPages == 0 || pages < cfg.MaxPages) {
			if err := sleepCtx(ctx, cfg.PageDelay); err != nil {
				return records, err
			}
		}
	}

	logger.Info("crawl finished", "pages", pages, "records", len(records))
	return records, nil
}
