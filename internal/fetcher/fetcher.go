// Package fetcher handles HTTP retrieval of index pages, detail pages and
// XHR endpoints.
package fetcher

import (
	"context"
	"net/url"
	"time"
)

// DefaultUserAgent mirrors a current desktop Chrome. The target site serves
// identical markup to browsers and rejects obvious bot agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"

// Request describes one HTTP exchange.
type Request struct {
	Method  string            // http.MethodGet or http.MethodPost
	URL     string            // absolute target URL
	Form    url.Values        // form-encoded body, POST only
	Headers map[string]string // extra headers for this request
	Timeout time.Duration     // overrides the fetcher default when set
}

// Response is the raw outcome of a request. Parsing is the caller's job.
type Response struct {
	URL         string
	Body        []byte
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch performs one request. Transport failures and non-2xx statuses
	// both surface as a non-nil error.
	Fetch(ctx context.Context, req Request) (Response, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns "static", "dynamic" or "auto".
	Type() string
}

// Config holds common fetcher configuration.
type Config struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int     // response body cap in bytes, 0 keeps the client default
	RateLimit   float64 // outbound requests per second, 0 = unlimited
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: DefaultUserAgent,
		Timeout:   30 * time.Second,
	}
}
