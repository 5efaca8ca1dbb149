package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attribute is one entry of a variation's attribute mapping, e.g. Size=Medium.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is an ordered mapping with unique keys. It encodes as a JSON
// object and keeps the document's key order, which drives how values are
// listed in order summaries. Equality ignores order.
type Attributes []Attribute

// NewAttributes builds an Attributes from alternating name/value pairs.
// A repeated name overwrites the earlier value in place.
func NewAttributes(pairs ...string) Attributes {
	var attrs Attributes
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs = attrs.With(pairs[i], pairs[i+1])
	}
	return attrs
}

// With returns a copy of a with name set to value.
func (a Attributes) With(name, value string) Attributes {
	out := make(Attributes, len(a), len(a)+1)
	copy(out, a)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attribute{Name: name, Value: value})
}

func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Values lists attribute values in mapping order.
func (a Attributes) Values() []string {
	values := make([]string, 0, len(a))
	for _, attr := range a {
		values = append(values, attr.Value)
	}
	return values
}

// Equal compares key by key; insertion order is irrelevant.
func (a Attributes) Equal(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for _, attr := range a {
		v, ok := b.Get(attr.Name)
		if !ok || v != attr.Value {
			return false
		}
	}
	return true
}

func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Attributes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("attributes: expected JSON object, got %v", tok)
	}

	var attrs Attributes
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("attributes: expected string key, got %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("attributes: value for %q: %w", key, err)
		}
		attrs = attrs.With(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = attrs
	return nil
}
