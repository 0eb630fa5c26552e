package update

import (
	"fmt"

	"github.com/3leaps/kfetch/pkg/kversion"
)

type Decision string

const (
	DecisionProceed   Decision = "proceed"   // Newest release is newer than the configured kernel
	DecisionSkip      Decision = "skip"      // Already up to date
	DecisionReinstall Decision = "reinstall" // Forced install of an equal version
	DecisionDowngrade Decision = "downgrade" // Forced install of an older version
)

// Apply reports whether the decision leads to a download and config rewrite.
func (d Decision) Apply() bool {
	switch d {
	case DecisionProceed, DecisionReinstall, DecisionDowngrade:
		return true
	default:
		return false
	}
}

// Decide determines whether the newest selected kernel should replace the
// configured one.
//
// current: version parsed from the kernel configured in .wslconfig
// newest:  version of the release picked from the feed
// force:   install even when newest is not greater than current
//
// Without force only a strictly greater newest version proceeds; a
// comparison involving a malformed version counts as equal and is skipped.
func Decide(current, newest kversion.Version, force bool) (Decision, string) {
	switch kversion.Compare(newest, current) {
	case kversion.Greater:
		return DecisionProceed, fmt.Sprintf("Updating kernel: %s → %s", current, newest)
	case kversion.Equal:
		if force {
			return DecisionReinstall, fmt.Sprintf("Reinstalling kernel %s (forced)", newest)
		}
		return DecisionSkip, "Kernel already up to date and force not enabled"
	default:
		if force {
			return DecisionDowngrade, fmt.Sprintf("Downgrading kernel: %s → %s (forced)", current, newest)
		}
		return DecisionSkip, fmt.Sprintf("Configured kernel %s is newer than %s, nothing to do", current, newest)
	}
}

// DescribeDecision returns a human-readable dry-run status.
func DescribeDecision(d Decision) string {
	switch d {
	case DecisionSkip:
		return "Already at latest version (no update needed)"
	case DecisionProceed:
		return "Update available"
	case DecisionReinstall:
		return "Force reinstall requested"
	case DecisionDowngrade:
		return "Forced downgrade requested"
	default:
		return string(d)
	}
}
