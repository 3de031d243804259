package store

import (
	"strings"
	"testing"
)

const validDataset = `
- title: "Attention Is All You Need"
  category: ml
  date: "2017-06-12"
  link: https://arxiv.org/abs/1706.03762
  note: transformer
- title: "Raft"
  category: systems
  date: "2014-05-20"
  link: https://raft.github.io/raft.pdf
`

func TestParseValidDataset(t *testing.T) {
	ds, err := Parse([]byte(validDataset))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ds.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(ds.Entries))
	}
	if ds.Entries[0].Title != "Attention Is All You Need" || ds.Entries[0].Note != "transformer" {
		t.Fatalf("first entry decoded wrong: %+v", ds.Entries[0])
	}
}

func TestParseTopLevelMustBeList(t *testing.T) {
	_, err := Parse([]byte("papers:\n  - title: x\n"))
	if err == nil || !strings.Contains(err.Error(), "must be a list") {
		t.Fatalf("want structural error for mapping top level, got %v", err)
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("- title: [unclosed\n"))
	if err == nil {
		t.Fatal("want parse error for malformed YAML")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	ds, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(empty): %v", err)
	}
	if len(ds.Items) != 0 || len(ds.Entries) != 0 {
		t.Fatalf("empty document should yield empty dataset, got %+v", ds)
	}
}

func TestParseUnquotedDateStaysString(t *testing.T) {
	// YAML resolves bare 2024-01-01 as a timestamp; the loader must keep
	// the source text so validation and the grid see an ISO date string.
	ds, err := Parse([]byte("- title: x\n  category: c\n  date: 2024-01-01\n  link: https://e.com\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ds.Entries[0].Date != "2024-01-01" {
		t.Fatalf("date = %q, want the literal string 2024-01-01", ds.Entries[0].Date)
	}
}

func TestParseDropsUnknownKeysFromEntries(t *testing.T) {
	ds, err := Parse([]byte("- title: x\n  category: c\n  date: \"2024-01-01\"\n  link: https://e.com\n  rating: 5\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// The typed entry only carries schema fields; the unknown key stays
	// visible to the validator through the raw item.
	if ds.Entries[0].Title != "x" {
		t.Fatalf("entry decoded wrong: %+v", ds.Entries[0])
	}
	m, ok := ds.Items[0].(map[string]any)
	if !ok {
		t.Fatalf("raw item lost: %+v", ds.Items[0])
	}
	if _, ok := m["rating"]; !ok {
		t.Fatalf("unknown key missing from raw item: %v", m)
	}
}
