package fetcher

import (
	"testing"
)

// --- NewFetcher Tests ---

func TestNewFetcher_Static(t *testing.T) {
	f, err := NewFetcher(FetchModeStatic, Config{})
	if err != nil {
		t.Fatalf("NewFetcher() error: %v", err)
	}
	if f.Type() != "static" {
		t.Errorf("Type() = %q, want static", f.Type())
	}
}

func TestNewFetcher_UnknownMode(t *testing.T) {
	_, err := NewFetcher(FetchMode("browser"), Config{})
	if err == nil {
		t.Error("NewFetcher() should reject unknown modes")
	}
}

// --- looksScriptGated Tests ---

func TestLooksScriptGated(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{
			"server rendered listing page",
			`<html><body><div class="nobj prod"><a href="/elan/ofis-1.html"><b>Ofis</b></a></div></body></html>`,
			false,
		},
		{
			"react shell",
			`<html><body><div id="root"></div><script src="app.js"></script></body></html>`,
			true,
		},
		{
			"js wall",
			`<html><body><p>Please enable JavaScript to view this page.</p></body></html>`,
			true,
		},
		{
			"noscript warning",
			`<html><body><noscript>This site requires JavaScript</noscript><div id="content"></div></body></html>`,
			true,
		},
		{
			"harmless noscript",
			`<html><body><noscript><img src="pixel.gif"></noscript><div>content here</div></body></html>`,
			false,
		},
		{
			"empty body",
			"",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksScriptGated([]byte(tt.body)); got != tt.expected {
				t.Errorf("looksScriptGated() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// --- extractBetween Tests ---

func TestExtractBetween(t *testing.T) {
	tests := []struct {
		s        string
		start    string
		end      string
		expected string
	}{
		{"<noscript>enable js</noscript>", "<noscript>", "</noscript>", "enable js"},
		{"no markers here", "<noscript>", "</noscript>", ""},
		{"<noscript>unclosed", "<noscript>", "</noscript>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			got := extractBetween(tt.s, tt.start, tt.end)
			if got != tt.expected {
				t.Errorf("extractBetween(%q) = %q, want %q", tt.s, got, tt.expected)
			}
		})
	}
}
