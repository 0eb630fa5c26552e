package release

import (
	"fmt"
	"slices"

	"github.com/3leaps/kfetch/internal/model"
	"github.com/3leaps/kfetch/pkg/kversion"
)

// Candidate is a release paired with its parsed name.
type Candidate struct {
	Release model.Release
	Version kversion.Version
}

// Candidates applies filter, drops releases whose names are unparseable and
// returns the rest in ascending order. The sort is stable, so releases that
// compare equal keep their feed order. A kversion.ErrCorruptVersion from any
// name aborts the whole call.
func Candidates(releases []model.Release, filter Filter) ([]Candidate, error) {
	if filter == nil {
		filter = Unrestricted{}
	}

	out := make([]Candidate, 0, len(releases))
	for _, rel := range releases {
		if !filter.Keep(rel.Name) {
			continue
		}
		v, err := kversion.Parse(rel.Name)
		if err != nil {
			return nil, fmt.Errorf("parse release %q: %w", rel.Name, err)
		}
		if v.Kind == kversion.KindUnparseable {
			continue
		}
		out = append(out, Candidate{Release: rel, Version: v})
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		return kversion.Cmp(a.Version, b.Version)
	})
	return out, nil
}

// Select returns the greatest candidate under filter. Among equal candidates
// the one appearing last in the feed wins. An empty result is reported as a
// *NoCandidatesError carrying filter.
func Select(releases []model.Release, filter Filter) (Candidate, error) {
	if filter == nil {
		filter = Unrestricted{}
	}
	candidates, err := Candidates(releases, filter)
	if err != nil {
		return Candidate{}, err
	}
	if len(candidates) == 0 {
		return Candidate{}, &NoCandidatesError{Filter: filter}
	}
	return candidates[len(candidates)-1], nil
}

// DownloadURL returns the download URL of the asset named assetName.
func DownloadURL(rel model.Release, assetName string) (string, error) {
	asset := rel.FindAsset(assetName)
	if asset == nil {
		return "", fmt.Errorf("%w: no kernel image called %s in release %s", ErrAssetNotFound, assetName, rel.Name)
	}
	return asset.BrowserDownloadURL, nil
}
