package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// FetchMode determines how pages are fetched.
type FetchMode string

const (
	FetchModeAuto    FetchMode = "auto"
	FetchModeStatic  FetchMode = "static"
	FetchModeDynamic FetchMode = "dynamic"
)

// NewFetcher creates an appropriate fetcher based on mode.
func NewFetcher(mode FetchMode, cfg Config) (Fetcher, error) {
	switch mode {
	case FetchModeStatic:
		return NewStaticFetcher(cfg), nil
	case FetchModeDynamic:
		return NewDynamicFetcher(cfg)
	case FetchModeAuto:
		return NewAutoFetcher(cfg)
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s", mode)
	}
}

// AutoFetcher tries the cheap static path first and falls back to the
// browser when a page looks JavaScript-gated.
type AutoFetcher struct {
	static  *StaticFetcher
	dynamic *DynamicFetcher
}

// NewAutoFetcher creates a fetcher that auto-detects JS requirements.
func NewAutoFetcher(cfg Config) (*AutoFetcher, error) {
	dynamic, err := NewDynamicFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic fetcher: %w", err)
	}
	return &AutoFetcher{
		static:  dynamic.static,
		dynamic: dynamic,
	}, nil
}

// Fetch tries static first, then falls back to dynamic if needed.
func (f *AutoFetcher) Fetch(ctx context.Context, req Request) (Response, error) {
	// XHR endpoints never need rendering
	if req.Method == http.MethodPost {
		return f.static.Fetch(ctx, req)
	}

	resp, err := f.static.Fetch(ctx, req)
	if err != nil {
		return f.dynamic.Fetch(ctx, req)
	}
	if looksScriptGated(resp.Body) {
		return f.dynamic.Fetch(ctx, req)
	}
	return resp, nil
}

// looksScriptGated checks whether a response body appears to be an empty
// shell that requires JS rendering to produce real content.
func looksScriptGated(body []byte) bool {
	html := strings.ToLower(string(body))

	shellMarkers := []string{
		"<div id=\"root\"></div>",
		"<div id=\"app\"></div>",
		"<div id=\"__next\"></div>",
		"enable javascript",
		"javascript required",
	}
	for _, marker := range shellMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}

	if strings.Contains(html, "<noscript>") {
		noscript := extractBetween(html, "<noscript>", "</noscript>")
		if strings.Contains(noscript, "javascript") || strings.Contains(noscript, "enable") {
			return true
		}
	}

	return false
}

// extractBetween extracts content between two markers.
func extractBetween(s, start, end string) string {
	startIdx := strings.Index(s, start)
	if startIdx == -1 {
		return ""
	}
	startIdx += len(start)

	endIdx := strings.Index(s[startIdx:], end)
	if endIdx == -1 {
		return ""
	}
	return s[startIdx : startIdx+endIdx]
}

// Close releases all fetcher resources.
func (f *AutoFetcher) Close() error {
	if f.dynamic != nil {
		return f.dynamic.Close()
	}
	return nil
}

// Type returns the fetcher type.
func (f *AutoFetcher) Type() string {
	return "auto"
}
