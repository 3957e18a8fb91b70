package ofis

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ofiscan/ofiscan/internal/listing"
)

// ParseDetail extracts everything a listing's detail page exposes. Every
// field is optional: selectors that match nothing leave their field unset
// rather than failing the parse.
func ParseDetail(body []byte, base *url.URL) (listing.Detail, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return listing.Detail{}, fmt.Errorf("parse detail page: %w", err)
	}

	var d listing.Detail
	if code := doc.Find("span.open_idshow").First(); code.Length() > 0 {
		d.Fields.Set(listing.KeyListingCode, strings.TrimSpace(code.Text()))
	}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		d.Fields.Set(listing.KeyFullTitle, strings.TrimSpace(h1.Text()))
	}

	if article := doc.Find("article").First(); article.Length() > 0 {
		// Labelled attributes come as <p><b>Label</b> value</p>. A label
		// repeated further down the page overwrites the earlier value.
		article.Find("p").Each(func(_ int, p *goquery.Selection) {
			if strings.TrimSpace(p.Text()) == "" {
				return
			}
			b := p.Find("b").First()
			if b.Length() == 0 {
				return
			}
			d.Fields.Set(strings.TrimSpace(b.Text()), pairValue(p))
		})

		if desc := article.Find("p.infop100.fullteshow").First(); desc.Length() > 0 {
			d.Fields.Set(listing.KeyDescription, strings.TrimSpace(desc.Text()))
		}
		if name, ok := contactName(article); ok {
			d.Fields.Set(listing.KeyContactName, name)
		}
		if date := article.Find("span.viewsbb").First(); date.Length() > 0 {
			d.Fields.Set(listing.KeyDate, strings.TrimSpace(date.Text()))
		}
	}

	doc.Find("div#picsopen a[rel=slider]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && href != "" {
			d.Images = append(d.Images, resolveURL(base, href))
		}
	})

	if tel := doc.Find("div#telshow").First(); tel.Length() > 0 {
		d.Call = &listing.CallParams{
			ID: tel.AttrOr("data-id", ""),
			T:  tel.AttrOr("data-t", ""),
			H:  tel.AttrOr("data-h", ""),
			RF: tel.AttrOr("data-rf", ""),
		}
	}

	return d, nil
}

// pairValue returns the paragraph text with the bold lead-in removed.
func pairValue(p *goquery.Selection) string {
	clone := p.Clone()
	clone.Find("b").First().Remove()
	return strings.TrimSpace(clone.Text())
}

// contactName reads the bare text node the site drops directly after the
// user icon, the only place the poster's name appears.
func contactName(article *goquery.Selection) (string, bool) {
	icon := article.Find("div.infocontact span.glyphicon-user").First()
	if icon.Length() == 0 {
		return "", false
	}
	node := icon.Get(0).NextSibling
	if node == nil || node.Type != html.TextNode {
		return "", false
	}
	return strings.TrimSpace(node.Data), true
}
