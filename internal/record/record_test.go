package record

import (
	"encoding/json"
	"testing"
)

func TestAuthorUnmarshalString(t *testing.T) {
	var a Author
	if err := json.Unmarshal([]byte(`"A. Smith"`), &a); err != nil {
		t.Fatalf("unmarshal string author: %v", err)
	}
	if a.Name != "A. Smith" {
		t.Errorf("Name = %q, want %q", a.Name, "A. Smith")
	}
}

func TestAuthorUnmarshalObject(t *testing.T) {
	var a Author
	if err := json.Unmarshal([]byte(`{"name": "B. Lee"}`), &a); err != nil {
		t.Fatalf("unmarshal object author: %v", err)
	}
	if a.Name != "B. Lee" {
		t.Errorf("Name = %q, want %q", a.Name, "B. Lee")
	}
}

func TestAuthorUnmarshalNull(t *testing.T) {
	a := Author{Name: "stale"}
	if err := json.Unmarshal([]byte(`null`), &a); err != nil {
		t.Fatalf("unmarshal null author: %v", err)
	}
	if a.Name != "" {
		t.Errorf("Name after null = %q, want empty", a.Name)
	}
}

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"2021"`, "2021"},
		{`2021`, "2021"},
		{`null`, ""},
	}

	for _, tt := range tests {
		var f FlexibleString
		if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.input, err)
		}
		if f.String() != tt.want {
			t.Errorf("unmarshal %s = %q, want %q", tt.input, f, tt.want)
		}
	}
}

func TestRecordUnmarshalMixedAuthors(t *testing.T) {
	data := []byte(`{
		"doi": "10.1/x",
		"title": "Drift Detection",
		"year": 2021,
		"authors": ["A. Smith", {"name": "B. Lee"}]
	}`)

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}

	if r.DOI != "10.1/x" {
		t.Errorf("DOI = %q", r.DOI)
	}
	if r.Year.String() != "2021" {
		t.Errorf("Year = %q, want 2021", r.Year)
	}
	names := r.AuthorNames()
	if len(names) != 2 || names[0] != "A. Smith" || names[1] != "B. Lee" {
		t.Errorf("AuthorNames = %v", names)
	}
}

func TestRecordRoundTripPreservesUnknownFields(t *testing.T) {
	data := []byte(`{"title":"Drift","custom_score":0.93,"tags":["iac"]}`)

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("reparse output: %v", err)
	}
	if got["custom_score"] != 0.93 {
		t.Errorf("custom_score lost in round trip: %v", got)
	}
}

func TestAuthorNamesEmpty(t *testing.T) {
	var r Record
	if names := r.AuthorNames(); names != nil {
		t.Errorf("expected nil for no authors, got %v", names)
	}
}
