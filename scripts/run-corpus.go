package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/3leaps/kfetch/internal/host/github"
	"github.com/3leaps/kfetch/pkg/kversion"
)

type corpusEntry struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Version string `json:"version"`
	Corrupt bool   `json:"corrupt"`
	Note    string `json:"note"`
}

type result struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Got    string `json:"got"`
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

func main() {
	manifestPath := flag.String("manifest", "testdata/corpus.json", "path to release name corpus")
	live := flag.Bool("live", false, "also classify every release name in the live feed")
	feedURL := flag.String("feed", "", "releases API URL used with -live")
	flag.Parse()

	manifest := firstSet(*manifestPath, os.Getenv("CORPUS_MANIFEST"))

	entries, err := loadManifest(manifest)
	if err != nil {
		fatalf("load manifest: %v", err)
	}
	if err := validateEntries(entries); err != nil {
		fatalf("manifest validation failed: %v", err)
	}

	var failures int
	for _, e := range entries {
		r := checkEntry(e)
		fmt.Printf("[%s] %s kind=%s got=%s", strings.ToUpper(r.Status), r.Name, r.Kind, r.Got)
		if r.Note != "" {
			fmt.Printf(" note=%s", r.Note)
		}
		fmt.Println()
		if r.Status != "pass" {
			failures++
		}
	}

	if *live {
		url := firstSet(*feedURL, os.Getenv("CORPUS_FEED"), github.DefaultReleasesURL)
		releases, err := github.NewClient(nil, "corpus").Releases(context.Background(), url)
		if err != nil {
			fatalf("fetch feed: %v", err)
		}
		for _, rel := range releases {
			fmt.Printf("[LIVE] %s %s\n", rel.Name, classify(rel.Name))
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// checkEntry parses e.Name and compares the outcome with the manifest.
func checkEntry(e corpusEntry) result {
	got := classify(e.Name)

	want := e.Kind
	if e.Corrupt {
		want = "corrupt"
	} else if e.Kind == kversion.KindParsed.String() {
		want = e.Version
	}

	status := "fail"
	if got == want {
		status = "pass"
	}
	return result{Name: e.Name, Kind: e.Kind, Got: got, Status: status, Note: e.Note}
}

// classify renders a name as its version string, its non-parsed kind, or
// "corrupt".
func classify(name string) string {
	v, err := kversion.Parse(name)
	if err != nil {
		return "corrupt"
	}
	return v.String()
}

func loadManifest(path string) ([]corpusEntry, error) {
	f, err := os.Open(path) // #nosec G304 -- test harness manifest path
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file, close error non-critical

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var entries []corpusEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func validateEntries(entries []corpusEntry) error {
	kinds := map[string]bool{
		kversion.KindUnparseable.String(): true,
		kversion.KindDegenerate.String():  true,
		kversion.KindParsed.String():      true,
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("entry %d: name is required", i)
		}
		if e.Corrupt {
			continue
		}
		if !kinds[e.Kind] {
			return fmt.Errorf("entry %d: kind must be one of unparseable, degenerate, parsed", i)
		}
		if e.Kind == kversion.KindParsed.String() && strings.TrimSpace(e.Version) == "" {
			return fmt.Errorf("entry %d: version is required for parsed names", i)
		}
	}
	return nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
