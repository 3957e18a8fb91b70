package listing

import (
	"bytes"
	"encoding/json"
)

// Fields is an ordered string-to-string mapping for scraped listing fields.
// Keys keep their insertion position; setting an existing key overwrites the
// value in place without moving it. Detail pages carry free-form labelled
// paragraphs, so the field set is open-ended and order matters for output.
type Fields struct {
	keys   []string
	values map[string]string
}

// Set stores a value under key, preserving the key's original position if
// it was already present.
func (f *Fields) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key and whether it was present.
func (f *Fields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// MarshalJSON encodes the mapping as a JSON object with keys in insertion
// order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
