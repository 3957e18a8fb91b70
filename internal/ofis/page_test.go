package ofis

import (
	"net/url"
	"testing"
)

func mustBase(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse base %q: %v", raw, err)
	}
	return u
}

// --- ParseListPage Tests ---

func TestParseListPage_ExtractsStubs(t *testing.T) {
	page := `
	<html><body>
	<div class="nobj prod">
		<a href="/elan/mebel-divan-77324.html"><img src="/thumbs/77324.jpg"></a>
		<b>Divan satılır</b>
		<small class="catshwopen">Ev və bağ üçün
Mebellər</small>
		<span class="sprice">250 AZN</span>
	</div>
	<div class="nobj prod">
		<a href="/elan/telefon-iphone-81002.html"></a>
		<b>iPhone 13</b>
		<span class="sprice">900 AZN</span>
	</div>
	</body></html>`

	stubs, err := ParseListPage([]byte(page), mustBase(t, "https://ofis.az"))
	if err != nil {
		t.Fatalf("ParseListPage() error = %v", err)
	}
	if len(stubs) != 2 {
		t.Fatalf("expected 2 stubs, got %d", len(stubs))
	}

	first := stubs[0]
	if first.ID != "77324" {
		t.Errorf("expected id 77324, got %q", first.ID)
	}
	if first.URL != "https://ofis.az/elan/mebel-divan-77324.html" {
		t.Errorf("unexpected url %q", first.URL)
	}
	if first.Title != "Divan satılır" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.Category != "Ev və bağ üçün Mebellər" {
		t.Errorf("expected category newlines flattened, got %q", first.Category)
	}
	if first.Price != "250 AZN" {
		t.Errorf("unexpected price %q", first.Price)
	}
	if first.ImageURL != "https://ofis.az/thumbs/77324.jpg" {
		t.Errorf("unexpected image url %q", first.ImageURL)
	}

	second := stubs[1]
	if second.ID != "81002" {
		t.Errorf("expected id 81002, got %q", second.ID)
	}
	if second.Category != "" {
		t.Errorf("expected empty category, got %q", second.Category)
	}
	if second.ImageURL != "" {
		t.Errorf("expected empty image url, got %q", second.ImageURL)
	}
}

func TestParseListPage_SkipsBlockWithoutLink(t *testing.T) {
	page := `
	<html><body>
	<div class="nobj prod"><b>No link here</b></div>
	<div class="nobj prod"><a href="/elan/ev-12.html"><b>Kept</b></a></div>
	</body></html>`

	stubs, err := ParseListPage([]byte(page), mustBase(t, "https://ofis.az"))
	if err != nil {
		t.Fatalf("ParseListPage() error = %v", err)
	}
	if len(stubs) != 1 {
		t.Fatalf("expected 1 stub, got %d", len(stubs))
	}
	if stubs[0].Title != "Kept" {
		t.Errorf("expected the linked block to survive, got %q", stubs[0].Title)
	}
}

func TestParseListPage_NoListings(t *testing.T) {
	page := `<html><body><div class="pager">1 2 3</div></body></html>`

	stubs, err := ParseListPage([]byte(page), mustBase(t, "https://ofis.az"))
	if err != nil {
		t.Fatalf("ParseListPage() error = %v", err)
	}
	if len(stubs) != 0 {
		t.Errorf("expected no stubs, got %d", len(stubs))
	}
}

func TestParseListPage_AbsoluteHrefKept(t *testing.T) {
	page := `
	<html><body>
	<div class="nobj prod"><a href="https://cdn.ofis.az/elan/bag-evi-555.html"></a></div>
	</body></html>`

	stubs, err := ParseListPage([]byte(page), mustBase(t, "https://ofis.az"))
	if err != nil {
		t.Fatalf("ParseListPage() error = %v", err)
	}
	if len(stubs) != 1 {
		t.Fatalf("expected 1 stub, got %d", len(stubs))
	}
	if stubs[0].URL != "https://cdn.ofis.az/elan/bag-evi-555.html" {
		t.Errorf("expected absolute href untouched, got %q", stubs[0].URL)
	}
	if stubs[0].ID != "555" {
		t.Errorf("expected id 555, got %q", stubs[0].ID)
	}
}

// --- resolveURL Tests ---

func TestResolveURL(t *testing.T) {
	base := mustBase(t, "https://ofis.az")

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"relative path", "/elan/ev-1.html", "https://ofis.az/elan/ev-1.html"},
		{"absolute url", "https://other.example/x.jpg", "https://other.example/x.jpg"},
		{"bare file", "pic.jpg", "https://ofis.az/pic.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveURL(base, tt.ref); got != tt.want {
				t.Errorf("resolveURL(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
