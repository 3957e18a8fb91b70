package ofis

// The site gates its endpoints on browser-looking requests. List and phone
// calls are XHR posts in the site's own frontend, so they carry the full
// fetch-metadata set; detail pages are plain navigations.

func (c *Client) pageHeaders() map[string]string {
	return map[string]string{
		"Accept-Language": "en-GB,en-US;q=0.9,en;q=0.8,ru;q=0.7,az;q=0.6",
		"DNT":             "1",
	}
}

func (c *Client) xhrHeaders(accept string) map[string]string {
	h := c.pageHeaders()
	h["Accept"] = accept
	h["Content-Type"] = "application/x-www-form-urlencoded; charset=UTF-8"
	h["Origin"] = c.base.String()
	h["Referer"] = c.base.String() + "/"
	h["X-Requested-With"] = "XMLHttpRequest"
	h["sec-fetch-dest"] = "empty"
	h["sec-fetch-mode"] = "cors"
	h["sec-fetch-site"] = "same-origin"
	return h
}
