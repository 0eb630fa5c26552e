package release

import (
	"errors"
	"fmt"
)

// ErrAssetNotFound indicates the selected release lacks the expected build artifact.
var ErrAssetNotFound = errors.New("asset not found")

// NoCandidatesError reports that no release survived filtering. Filter is the
// filter that was active.
type NoCandidatesError struct {
	Filter Filter
}

func (e *NoCandidatesError) Error() string {
	if e.Filter == nil || e.Filter.Scope() == "" {
		return "unable to find any releases"
	}
	return fmt.Sprintf("unable to find any %s releases", e.Filter.Scope())
}
