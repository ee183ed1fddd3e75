// Package record defines the core domain types for bibliographic records.
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record represents one bibliographic entry from a search export.
//
// All fields are optional: search exports are inconsistently populated, and
// downstream matching degrades gracefully when identifiers, titles, or
// authors are absent. A record with neither DOI nor title carries no usable
// evidence and is never merged with anything.
type Record struct {
	DOI      string         `json:"doi,omitempty"` // primary deduplication key
	Title    string         `json:"title,omitempty"`
	Authors  []Author       `json:"authors,omitempty"`
	Year     FlexibleString `json:"year,omitempty"`
	Venue    string         `json:"venue,omitempty"`
	Abstract string         `json:"abstract,omitempty"`
	URL      string         `json:"url,omitempty"`
	Source   string         `json:"source,omitempty"` // which search engine produced it

	// Raw holds the original JSON object the record was parsed from, so
	// that saving preserves export fields this struct does not model.
	Raw json.RawMessage `json:"-"`
}

// Author represents a paper author. Exports encode authors either as a
// plain name string or as an object with a "name" field; both forms
// unmarshal into Name.
type Author struct {
	Name string `json:"name"`
}

func (a *Author) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.Name = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Name = s
		return nil
	}

	type plain Author
	var p plain
	if err := json.Unmarshal(data, &p); err == nil {
		*a = Author(p)
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into Author", string(data))
}

// FlexibleString can unmarshal from either string or number JSON values.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*f = FlexibleString(strconv.Itoa(i))
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Record(p)
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes back the original export object when one was captured,
// so a load/save round trip does not strip unmodeled fields.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain Record
	return json.Marshal(plain(r))
}

// AuthorNames returns the display names of all authors, in order.
func (r Record) AuthorNames() []string {
	if len(r.Authors) == 0 {
		return nil
	}
	names := make([]string, len(r.Authors))
	for i, a := range r.Authors {
		names[i] = a.Name
	}
	return names
}
