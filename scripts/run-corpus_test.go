package main

import (
	"path/filepath"
	"testing"
)

func TestCorpusManifest(t *testing.T) {
	t.Parallel()

	entries, err := loadManifest(filepath.Join("..", "testdata", "corpus.json"))
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if err := validateEntries(entries); err != nil {
		t.Fatalf("validateEntries: %v", err)
	}
	for _, e := range entries {
		if r := checkEntry(e); r.Status != "pass" {
			t.Errorf("%s: got %q (kind %s)", e.Name, r.Got, e.Kind)
		}
	}
}

func TestValidateEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []corpusEntry
		wantErr bool
	}{
		{"ok", []corpusEntry{{Name: "x", Kind: "unparseable"}}, false},
		{"corrupt needs no kind", []corpusEntry{{Name: "x", Corrupt: true}}, false},
		{"missing name", []corpusEntry{{Kind: "parsed", Version: "1"}}, true},
		{"bad kind", []corpusEntry{{Name: "x", Kind: "weird"}}, true},
		{"parsed without version", []corpusEntry{{Name: "x", Kind: "parsed"}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := validateEntries(tc.entries)
			if (err != nil) != tc.wantErr {
				t.Fatalf("validateEntries: got %v wantErr %v", err, tc.wantErr)
			}
		})
	}
}
