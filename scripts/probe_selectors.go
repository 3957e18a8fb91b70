// probe_selectors.go - Dump what the parsers extract from a live page
//
// Usage: go run scripts/probe_selectors.go <url>
//
// Examples:
//   go run scripts/probe_selectors.go index
//   go run scripts/probe_selectors.go https://ofis.az/elan/ofis-12345.html
//
// "index" probes the listing-page selectors against the first index page;
// a listing URL probes the detail-page selectors. Useful after the site
// changes markup and fields start coming back empty.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ofiscan/ofiscan/internal/fetcher"
	"github.com/ofiscan/ofiscan/internal/ofis"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/probe_selectors.go <url|index>")
		os.Exit(1)
	}

	target := os.Args[1]
	ctx := context.Background()

	f := fetcher.NewStaticFetcher(fetcher.Config{Timeout: 30 * time.Second})
	defer func() { _ = f.Close() }()

	client, err := ofis.NewClient(ofis.DefaultBaseURL, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating client: %v\n", err)
		os.Exit(1)
	}

	if target == "index" {
		probeIndex(ctx, client)
		return
	}
	probeDetail(ctx, client, target)
}

func probeIndex(ctx context.Context, client *ofis.Client) {
	stubs, err := client.ListPage(ctx, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching index page: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Index page start=0: %d listing blocks\n\n", len(stubs))
	for _, s := range stubs {
		fmt.Printf("  id=%s\n", s.ID)
		fmt.Printf("    url:      %s\n", s.URL)
		fmt.Printf("    title:    %q\n", s.Title)
		fmt.Printf("    category: %q\n", s.Category)
		fmt.Printf("    price:    %q\n", s.Price)
		fmt.Printf("    image:    %s\n", s.ImageURL)
	}
}

func probeDetail(ctx context.Context, client *ofis.Client, url string) {
	d, err := client.Detail(ctx, url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching detail page: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Detail page %s\n\n", url)
	fmt.Printf("Fields (%d, page order):\n", d.Fields.Len())
	for _, k := range d.Fields.Keys() {
		v, _ := d.Fields.Get(k)
		fmt.Printf("  %-16s %q\n", k, v)
	}

	fmt.Printf("\nImages: %d\n", len(d.Images))
	for _, img := range d.Images {
		fmt.Printf("  %s\n", img)
	}

	if d.Call != nil {
		fmt.Printf("\nCall params: id=%s t=%s h=%s rf=%s\n", d.Call.ID, d.Call.T, d.Call.H, d.Call.RF)
	} else {
		fmt.Println("\nCall params: none")
	}
}
