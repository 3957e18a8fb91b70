package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// StaticFetcher uses Colly for plain HTTP fetching. It handles both page
// GETs and the form POSTs the site's XHR endpoints expect.
type StaticFetcher struct {
	config  Config
	limiter *Limiter
}

// NewStaticFetcher creates a new static fetcher.
func NewStaticFetcher(cfg Config) *StaticFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &StaticFetcher{
		config:  cfg,
		limiter: NewLimiter(cfg.RateLimit),
	}
}

// Fetch performs one request using Colly.
func (f *StaticFetcher) Fetch(ctx context.Context, req Request) (Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return Response{}, err
	}

	result := Response{
		URL:       req.URL,
		FetchedAt: time.Now(),
	}

	// Create a new collector for each request
	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
	)

	timeout := req.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)

	if f.config.MaxBodySize > 0 {
		c.MaxBodySize = f.config.MaxBodySize
	}

	if len(req.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range req.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.Body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
	})

	var err error
	if req.Method == http.MethodPost {
		form := make(map[string]string, len(req.Form))
		for k := range req.Form {
			form[k] = req.Form.Get(k)
		}
		err = c.Post(req.URL, form)
	} else {
		err = c.Visit(req.URL)
	}
	if err != nil {
		return result, fmt.Errorf("request failed: %w", err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}

	return result, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}
