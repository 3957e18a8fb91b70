// Package ofis talks to the ofis.az classifieds site: the paginated
// index, per-listing detail pages and the phone-reveal endpoint.
package ofis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ofiscan/ofiscan/internal/fetcher"
	"github.com/ofiscan/ofiscan/internal/listing"
	"github.com/ofiscan/ofiscan/internal/logger"
)

// ErrEmptyDetail reports a detail page that parsed cleanly but exposed no
// listing content, which is what the site serves for deleted listings.
var ErrEmptyDetail = errors.New("detail page has no listing content")

// Client issues site requests through a Fetcher and parses the replies.
// It is safe for concurrent use as long as the underlying fetcher is.
type Client struct {
	base *url.URL
	f    fetcher.Fetcher
}

// NewClient builds a client for the given site root. An empty baseURL
// selects the production site.
func NewClient(baseURL string, f fetcher.Fetcher) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	return &Client{base: base, f: f}, nil
}

// ListPage fetches one page of the paginated index and returns its
// previews. The index is served by an XHR endpoint that expects a POST
// with the offset in the query string. An empty result with a nil error
// means the page really was empty, which ends pagination upstream.
func (c *Client) ListPage(ctx context.Context, start int) ([]listing.Stub, error) {
	resp, err := c.f.Fetch(ctx, fetcher.Request{
		Method:  http.MethodPost,
		URL:     c.listURL(start),
		Headers: c.xhrHeaders("*/*"),
	})
	if err != nil {
		return nil, fmt.Errorf("list page start=%d: %w", start, err)
	}

	stubs, err := ParseListPage(resp.Body, c.base)
	if err != nil {
		return nil, fmt.Errorf("list page start=%d: %w", start, err)
	}
	logger.Debug("list page fetched", "start", start, "stubs", len(stubs))
	return stubs, nil
}

// Detail fetches one listing's page and returns whatever fields it
// exposes. Pages with no listing content at all fail with ErrEmptyDetail.
func (c *Client) Detail(ctx context.Context, listingURL string) (listing.Detail, error) {
	resp, err := c.f.Fetch(ctx, fetcher.Request{
		Method:  http.MethodGet,
		URL:     listingURL,
		Headers: c.pageHeaders(),
	})
	if err != nil {
		return listing.Detail{}, fmt.Errorf("detail %s: %w", listingURL, err)
	}

	d, err := ParseDetail(resp.Body, c.base)
	if err != nil {
		return listing.Detail{}, fmt.Errorf("detail %s: %w", listingURL, err)
	}
	if d.Empty() {
		return listing.Detail{}, fmt.Errorf("detail %s: %w", listingURL, ErrEmptyDetail)
	}
	logger.Debug("detail fetched", "url", listingURL,
		"fields", d.Fields.Len(), "images", len(d.Images))
	return d, nil
}

// Phone asks the reveal endpoint for a listing's number. The payload's
// own ok flag decides success; a 200 status alone proves nothing.
func (c *Client) Phone(ctx context.Context, p listing.CallParams) (string, error) {
	resp, err := c.f.Fetch(ctx, fetcher.Request{
		Method:  http.MethodPost,
		URL:     c.phoneURL(),
		Form:    phoneForm(p),
		Headers: c.xhrHeaders("application/json, text/javascript, */*; q=0.01"),
	})
	if err != nil {
		return "", fmt.Errorf("phone id=%s: %w", p.ID, err)
	}

	tel, err := ParsePhonePayload(resp.Body)
	if err != nil {
		return "", fmt.Errorf("phone id=%s: %w", p.ID, err)
	}
	return tel, nil
}
