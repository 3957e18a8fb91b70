package ofis

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ofiscan/ofiscan/internal/listing"
)

// ParseListPage extracts listing previews from one page of the paginated
// index. Blocks without a link are dropped; every other field is optional
// and defaults to empty.
func ParseListPage(body []byte, base *url.URL) ([]listing.Stub, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse list page: %w", err)
	}

	var stubs []listing.Stub
	doc.Find("div.nobj.prod").Each(func(_ int, block *goquery.Selection) {
		if stub, ok := parseStub(block, base); ok {
			stubs = append(stubs, stub)
		}
	})
	return stubs, nil
}

// parseStub reads one preview block. The anchor is the only required
// element; its href names the listing and carries the numeric id.
func parseStub(block *goquery.Selection, base *url.URL) (listing.Stub, bool) {
	href, ok := block.Find("a[href]").First().Attr("href")
	if !ok {
		return listing.Stub{}, false
	}

	u := resolveURL(base, href)
	stub := listing.Stub{
		ID:       listing.IDFromURL(u),
		URL:      u,
		Title:    strings.TrimSpace(block.Find("b").First().Text()),
		Category: categoryText(block),
		Price:    strings.TrimSpace(block.Find("span.sprice").First().Text()),
	}
	if src, ok := block.Find("img").First().Attr("src"); ok && src != "" {
		stub.ImageURL = resolveURL(base, src)
	}
	return stub, true
}

// categoryText flattens the category breadcrumb, which the site renders
// across several lines.
func categoryText(block *goquery.Selection) string {
	t := strings.TrimSpace(block.Find("small.catshwopen").First().Text())
	return strings.ReplaceAll(t, "\n", " ")
}
