package ofis

import (
	"fmt"
	"net/url"
)

// DefaultBaseURL is the production site root.
const DefaultBaseURL = "https://ofis.az"

const (
	listPath = "/homelist/"
	ajaxPath = "/ajax.php"
)

func (c *Client) listURL(start int) string {
	return fmt.Sprintf("%s%s?start=%d", c.base, listPath, start)
}

func (c *Client) phoneURL() string {
	return c.base.String() + ajaxPath
}

// resolveURL turns a relative href into an absolute URL against base.
// Unparseable refs are returned unchanged; the site occasionally emits
// hrefs with stray characters and a best-effort link beats none.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
