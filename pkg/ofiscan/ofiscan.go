// Package ofiscan is the public API for crawling ofis.az classifieds:
// paginated listing discovery, per-listing detail enrichment and
// phone-number reveal.
package ofiscan

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/ofiscan/ofiscan/internal/crawler"
	"github.com/ofiscan/ofiscan/internal/fetcher"
	"github.com/ofiscan/ofiscan/internal/listing"
	"github.com/ofiscan/ofiscan/internal/ofis"
)

type (
	// Record is a fully merged listing: preview fields unioned with
	// detail fields, plus the phone number when a reveal succeeded.
	Record = listing.Record

	// Stub is one listing preview from the paginated index.
	Stub = listing.Stub

	// Detail is the field set scraped from a listing's own page.
	Detail = listing.Detail

	// CallParams are the tokens that authorise a phone reveal.
	CallParams = listing.CallParams

	// Fields is an insertion-ordered field mapping.
	Fields = listing.Fields

	// CrawlConfig is the crawl policy.
	CrawlConfig = crawler.Config

	// FetchMode selects the fetching strategy.
	FetchMode = fetcher.FetchMode
)

// Available fetch modes.
const (
	FetchModeAuto    = fetcher.FetchModeAuto
	FetchModeStatic  = fetcher.FetchModeStatic
	FetchModeDynamic = fetcher.FetchModeDynamic
)

// Version returns the module version consumers pulled via go get.
// Returns "(devel)" when built from source without version info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown)"
}

// Client crawls the site. Create one with New and release it with
// Close; it is safe for concurrent use.
type Client struct {
	fetcher    fetcher.Fetcher
	ownFetcher bool
	site       *ofis.Client
	config     Config
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Crawl.Validate(); err != nil {
		return nil, err
	}

	f := cfg.Fetcher
	own := false
	if f == nil {
		var err error
		f, err = fetcher.NewFetcher(cfg.FetchMode, fetcher.Config{
			UserAgent:   cfg.UserAgent,
			Timeout:     cfg.Timeout,
			MaxBodySize: cfg.MaxBodySize,
			RateLimit:   cfg.RateLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("creating fetcher: %w", err)
		}
		own = true
	}

	site, err := ofis.NewClient(cfg.BaseURL, f)
	if err != nil {
		if own {
			_ = f.Close()
		}
		return nil, err
	}

	return &Client{fetcher: f, ownFetcher: own, site: site, config: cfg}, nil
}

// Crawl walks the index from the first page and returns every listing
// accumulated before the crawl stopped. See crawler.Crawler.Run for the
// stop conditions.
func (c *Client) Crawl(ctx context.Context) ([]Record, error) {
	return crawler.New(c.site, c.config.Crawl).Run(ctx)
}

// ListPage fetches one index page of listing previews.
func (c *Client) ListPage(ctx context.Context, start int) ([]Stub, error) {
	return c.site.ListPage(ctx, start)
}

// Detail fetches one listing's full field set.
func (c *Client) Detail(ctx context.Context, url string) (Detail, error) {
	return c.site.Detail(ctx, url)
}

// Phone reveals one listing's phone number.
func (c *Client) Phone(ctx context.Context, params CallParams) (string, error) {
	return c.site.Phone(ctx, params)
}

// Close releases fetcher resources. Injected fetchers stay open; their
// owner closes them.
func (c *Client) Close() error {
	if !c.ownFetcher {
		return nil
	}
	return c.fetcher.Close()
}
