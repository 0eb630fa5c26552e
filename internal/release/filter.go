package release

import (
	"fmt"
	"strings"
)

// Filter restricts which releases are considered. Exactly one of LTSOnly,
// MajorMinor, MajorOnly or Unrestricted is active per run.
type Filter interface {
	// Keep reports whether a release with the given name passes the filter.
	Keep(name string) bool
	// Scope names the releases the filter admits, for diagnostics.
	Scope() string

	isFilter()
}

// LTSOnly keeps releases whose name contains "lts".
type LTSOnly struct{}

// MajorMinor keeps releases whose name starts with "Major.Minor".
type MajorMinor struct {
	Major int
	Minor int
}

// MajorOnly keeps releases whose name starts with "Major".
type MajorOnly struct {
	Major int
}

// Unrestricted keeps every release.
type Unrestricted struct{}

func (LTSOnly) Keep(name string) bool { return strings.Contains(name, "lts") }
func (LTSOnly) Scope() string         { return "LTS" }
func (LTSOnly) isFilter()             {}

func (f MajorMinor) Keep(name string) bool {
	return strings.HasPrefix(name, fmt.Sprintf("%d.%d", f.Major, f.Minor))
}
func (f MajorMinor) Scope() string { return fmt.Sprintf("%d.%d.Z", f.Major, f.Minor) }
func (MajorMinor) isFilter()       {}

// Keep is a plain prefix test: MajorOnly{6} also admits "60.1.0-...".
func (f MajorOnly) Keep(name string) bool {
	return strings.HasPrefix(name, fmt.Sprintf("%d", f.Major))
}
func (f MajorOnly) Scope() string { return fmt.Sprintf("%d.Y.Z", f.Major) }
func (MajorOnly) isFilter()       {}

func (Unrestricted) Keep(string) bool { return true }
func (Unrestricted) Scope() string    { return "" }
func (Unrestricted) isFilter()        {}
