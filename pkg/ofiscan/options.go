package ofiscan

import (
	"time"

	"github.com/ofiscan/ofiscan/internal/crawler"
	"github.com/ofiscan/ofiscan/internal/fetcher"
	"github.com/ofiscan/ofiscan/internal/ofis"
)

// Config holds all client configuration.
type Config struct {
	// Site settings
	BaseURL string

	// Fetching settings
	FetchMode   fetcher.FetchMode
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int     // response body cap in bytes, 0 keeps the client default
	RateLimit   float64 // outbound requests per second, 0 = unlimited

	// Fetcher overrides the built-in fetchers when set. The caller
	// keeps ownership; Close will not touch it.
	Fetcher fetcher.Fetcher

	// Crawl policy
	Crawl crawler.Config
}

// DefaultConfig returns sensible defaults. The site is server-rendered,
// so plain HTTP fetching is the default; switch to auto or dynamic only
// if the site grows a JavaScript gate.
func DefaultConfig() Config {
	return Config{
		BaseURL:   ofis.DefaultBaseURL,
		FetchMode: fetcher.FetchModeStatic,
		UserAgent: fetcher.DefaultUserAgent,
		Timeout:   30 * time.Second,
		Crawl:     crawler.DefaultConfig(),
	}
}

// Option configures the client.
type Option func(*Config)

// WithBaseURL points the client at a different site root.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithFetchMode sets the fetch mode (auto, static, dynamic).
func WithFetchMode(mode fetcher.FetchMode) Option {
	return func(c *Config) {
		c.FetchMode = mode
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxBodySize caps response bodies at n bytes.
func WithMaxBodySize(n int) Option {
	return func(c *Config) {
		c.MaxBodySize = n
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Config) {
		c.RateLimit = rps
	}
}

// WithFetcher injects a custom fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithCrawlConfig replaces the whole crawl policy.
func WithCrawlConfig(cfg crawler.Config) Option {
	return func(c *Config) {
		c.Crawl = cfg
	}
}

// WithStartOffset sets the index cursor the crawl begins at, which
// lets a long run resume where an earlier one stopped.
func WithStartOffset(n int) Option {
	return func(c *Config) {
		c.Crawl.StartOffset = n
	}
}

// WithMaxPages limits how many index pages one crawl walks.
func WithMaxPages(n int) Option {
	return func(c *Config) {
		c.Crawl.MaxPages = n
	}
}

// WithWorkers sets the per-page listing concurrency.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Crawl.Workers = n
	}
}

// WithPageDelay sets the pause between index pages.
func WithPageDelay(d time.Duration) Option {
	return func(c *Config) {
		c.Crawl.PageDelay = d
	}
}

// WithListingDelay sets the pause before each listing fetch.
func WithListingDelay(d time.Duration) Option {
	return func(c *Config) {
		c.Crawl.ListingDelay = d
	}
}

// WithSkipPhones leaves phone numbers unrevealed.
func WithSkipPhones(skip bool) Option {
	return func(c *Config) {
		c.Crawl.SkipPhones = skip
	}
}
