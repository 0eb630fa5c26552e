// Package hostenv inspects the kernel the process is running on.
package hostenv

import "strings"

// Kernel describes the running kernel.
type Kernel struct {
	Release string
	WSL     bool
}

// ParseOSRelease interprets the contents of /proc/sys/kernel/osrelease.
func ParseOSRelease(content string) Kernel {
	release := strings.TrimSpace(content)
	if i := strings.IndexByte(release, '\n'); i >= 0 {
		release = strings.TrimSpace(release[:i])
	}
	return Kernel{Release: release, WSL: isWSLRelease(release)}
}

// WSL kernels carry either Microsoft's suffix ("-microsoft-standard-WSL2")
// or, for custom builds such as xanmod, a "WSL" token.
func isWSLRelease(release string) bool {
	lower := strings.ToLower(release)
	return strings.Contains(lower, "microsoft") || strings.Contains(lower, "wsl")
}
