package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ofiscan/ofiscan/internal/logger"
)

// DynamicFetcher renders pages in a headless browser via chromedp. Only
// document GETs go through the browser; form POSTs target plain XHR
// endpoints that return JSON, so those are delegated to a static fetcher.
type DynamicFetcher struct {
	config    Config
	allocCtx  context.Context
	cancelCtx context.CancelFunc
	static    *StaticFetcher
	limiter   *Limiter
}

// NewDynamicFetcher creates a new dynamic fetcher with a browser allocator.
func NewDynamicFetcher(cfg Config) (*DynamicFetcher, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	logger.Debug("dynamic fetcher created",
		"user_agent", cfg.UserAgent,
		"timeout", cfg.Timeout)

	static := NewStaticFetcher(cfg)
	return &DynamicFetcher{
		config:    cfg,
		allocCtx:  allocCtx,
		cancelCtx: cancelAlloc,
		static:    static,
		// one bucket for both the browser and the delegated XHR path
		limiter: static.limiter,
	}, nil
}

// Fetch retrieves page content using a headless browser.
func (f *DynamicFetcher) Fetch(ctx context.Context, req Request) (Response, error) {
	if req.Method == http.MethodPost {
		return f.static.Fetch(ctx, req)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return Response{}, err
	}

	result := Response{
		URL:       req.URL,
		FetchedAt: time.Now(),
	}

	// New browser context per request
	browserCtx, cancelBrowser := chromedp.NewContext(f.allocCtx)
	defer cancelBrowser()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(req.URL),
		chromedp.WaitVisible("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return result, fmt.Errorf("browser automation failed: %w", err)
	}

	logger.Debug("dynamic fetch complete", "url", req.URL, "html_size", len(html))

	result.Body = []byte(html)
	result.StatusCode = http.StatusOK // chromedp doesn't easily expose status codes
	result.ContentType = "text/html"
	return result, nil
}

// Close releases browser resources.
func (f *DynamicFetcher) Close() error {
	if f.cancelCtx != nil {
		f.cancelCtx()
	}
	return nil
}

// Type returns the fetcher type.
func (f *DynamicFetcher) Type() string {
	return "dynamic"
}
