package listing

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stub is the preview record scraped from one block of a listing-index page.
// Stubs are immutable once produced; ID is derived from the URL.
type Stub struct {
	ID       string
	URL      string
	Title    string
	Category string
	Price    string
	ImageURL string
}

// CallParams are the opaque tokens embedded in a detail page that authorise
// the follow-up phone-reveal request.
type CallParams struct {
	ID string `json:"id" yaml:"id"`
	T  string `json:"t" yaml:"t"`
	H  string `json:"h" yaml:"h"`
	RF string `json:"rf" yaml:"rf"`
}

// Usable reports whether the params are sufficient to attempt a phone
// reveal. Only the id is mandatory; t and rf have defaults.
func (p CallParams) Usable() bool {
	return p.ID != ""
}

// Detail is the full field set scraped from a listing's dedicated page.
// Fields carries every labelled value in page order; Call is nil when the
// page exposes no phone-reveal tokens.
type Detail struct {
	Fields Fields
	Images []string
	Call   *CallParams
}

// Empty reports whether the detail carries no data at all, which is what
// the site serves for deleted or expired listings.
func (d Detail) Empty() bool {
	return d.Fields.Len() == 0 && len(d.Images) == 0 && d.Call == nil
}

// Record is a fully merged listing: stub fields unioned with detail fields,
// plus the resolved phone number when the reveal call succeeded.
type Record struct {
	Fields Fields
	Images []string
	Call   *CallParams
	Phone  string
}

// Stub field keys, in the order the index page yields them.
const (
	KeyListingID = "listing_id"
	KeyURL       = "url"
	KeyTitle     = "title"
	KeyCategory  = "category"
	KeyPrice     = "price"
	KeyImageURL  = "image_url"
)

// Detail field keys. The free-form pairs scraped from the description
// paragraphs sit between full_title and description.
const (
	KeyListingCode = "listing_code"
	KeyFullTitle   = "full_title"
	KeyDescription = "description"
	KeyContactName = "contact_name"
	KeyDate        = "date"
)

// Merge combines a stub with its detail record. Stub fields are written
// first, then detail fields; on a key collision the detail value wins but
// the key keeps the stub's position.
func Merge(stub Stub, d Detail) Record {
	var f Fields
	f.Set(KeyListingID, stub.ID)
	f.Set(KeyURL, stub.URL)
	f.Set(KeyTitle, stub.Title)
	f.Set(KeyCategory, stub.Category)
	f.Set(KeyPrice, stub.Price)
	f.Set(KeyImageURL, stub.ImageURL)
	for _, k := range d.Fields.Keys() {
		v, _ := d.Fields.Get(k)
		f.Set(k, v)
	}
	return Record{Fields: f, Images: d.Images, Call: d.Call}
}

// Flatten returns the scalar fields as a plain map for tabular output.
// Images and call params are dropped; the phone is included when resolved.
func (r Record) Flatten() map[string]string {
	out := make(map[string]string, r.Fields.Len()+1)
	for _, k := range r.Fields.Keys() {
		out[k], _ = r.Fields.Get(k)
	}
	if r.Phone != "" {
		out["phone"] = r.Phone
	}
	return out
}

// MarshalJSON encodes the record as a single JSON object: scalar fields in
// insertion order, then images, then the call params under "ajax_data",
// then the phone. Absent call params and phone are omitted entirely.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	writeField := func(key string, v any) error {
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		kb, err := json.Marshal(key)
		if err != nil {
			return err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return nil
	}
	for _, k := range r.Fields.Keys() {
		v, _ := r.Fields.Get(k)
		if err := writeField(k, v); err != nil {
			return nil, err
		}
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	if err := writeField("images", images); err != nil {
		return nil, err
	}
	if r.Call != nil {
		if err := writeField("ajax_data", r.Call); err != nil {
			return nil, err
		}
	}
	if r.Phone != "" {
		if err := writeField("phone", r.Phone); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML mirrors the JSON layout as an ordered mapping node.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, v any) error {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(v); err != nil {
			return err
		}
		node.Content = append(node.Content, keyNode, valNode)
		return nil
	}
	for _, k := range r.Fields.Keys() {
		v, _ := r.Fields.Get(k)
		if err := add(k, v); err != nil {
			return nil, err
		}
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	if err := add("images", images); err != nil {
		return nil, err
	}
	if r.Call != nil {
		if err := add("ajax_data", r.Call); err != nil {
			return nil, err
		}
	}
	if r.Phone != "" {
		if err := add("phone", r.Phone); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// IDFromURL derives a listing id from its URL: the segment after the last
// hyphen with any ".html" suffix removed.
func IDFromURL(rawURL string) string {
	id := rawURL
	if i := strings.LastIndex(id, "-"); i >= 0 {
		id = id[i+1:]
	}
	return strings.TrimSuffix(id, ".html")
}
