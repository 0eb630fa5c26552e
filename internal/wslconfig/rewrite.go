// Package wslconfig reads and rewrites the kernel option of a .wslconfig file.
package wslconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Key is the option holding the kernel image path.
const Key = "kernel"

// ErrConfigDrift indicates that the expected kernel line is not present.
var ErrConfigDrift = errors.New("config drift")

// Rewrite points the kernel line of document at next.
//
// The line "\nkernel=<current>\n" must appear verbatim. It is replaced by
// "\nkernel=<sanitized next>\n# " followed by the original line, so the stale
// entry survives as a comment. If the line is absent the document is left
// alone and ErrConfigDrift is returned. Running Rewrite again on its own
// output with the same current value fails the same way.
func Rewrite(document, current, next string) (string, error) {
	needle := "\n" + Key + "=" + current + "\n"
	idx := strings.Index(document, needle)
	if idx == -1 {
		return "", fmt.Errorf("%w: %s=%s not found", ErrConfigDrift, Key, current)
	}

	var b strings.Builder
	b.Grow(len(document) + len(next) + len(Key) + 8)
	b.WriteString(document[:idx])
	b.WriteString("\n")
	b.WriteString(Key)
	b.WriteString("=")
	b.WriteString(SanitizeValue(next))
	b.WriteString("\n# ")
	b.WriteString(document[idx+1:])
	return b.String(), nil
}

// SanitizeValue drops one trailing line terminator and doubles every
// backslash, which is how .wslconfig expects Windows paths to be written.
func SanitizeValue(value string) string {
	value = strings.TrimSuffix(value, "\n")
	value = strings.TrimSuffix(value, "\r")
	return strings.ReplaceAll(value, `\`, `\\`)
}

// KernelName returns the file name part of a Windows kernel path as stored
// in .wslconfig, where separators may be single or doubled backslashes.
func KernelName(path string) string {
	if i := strings.LastIndex(path, `\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
