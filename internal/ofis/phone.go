package ofis

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ofiscan/ofiscan/internal/listing"
)

const (
	actTelShow         = "telshow"
	defaultListingType = "product"
)

// phonePayload is the reveal endpoint's reply envelope. The endpoint
// answers 200 even on refusal; only ok==1 carries a number.
type phonePayload struct {
	OK  int    `json:"ok"`
	Tel string `json:"tel"`
}

// phoneForm builds the reveal request body. The site's frontend falls
// back to "product" when a listing carries no type token, and passes rf
// through verbatim.
func phoneForm(p listing.CallParams) url.Values {
	t := p.T
	if t == "" {
		t = defaultListingType
	}
	return url.Values{
		"act": {actTelShow},
		"id":  {p.ID},
		"t":   {t},
		"h":   {p.H},
		"rf":  {p.RF},
	}
}

// ParsePhonePayload decodes a reveal response and returns the phone
// number, or an error when the payload signals refusal.
func ParsePhonePayload(body []byte) (string, error) {
	var p phonePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return "", fmt.Errorf("decode phone payload: %w", err)
	}
	if p.OK != 1 {
		return "", fmt.Errorf("phone request refused (ok=%d)", p.OK)
	}
	return p.Tel, nil
}
