// Package wslpath converts Linux paths into Windows paths using wslpath(1).
package wslpath

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const (
	DefaultBin      = "wslpath"
	maxCommandError = 512
)

// Translator converts a local path into the path string Windows uses for it.
type Translator interface {
	ToWindows(ctx context.Context, path string) (string, error)
}

// Command runs Bin -w <path>. The output is returned unmodified, including
// the trailing newline wslpath prints.
type Command struct {
	Bin string
}

func (c Command) ToWindows(ctx context.Context, path string) (string, error) {
	bin := c.Bin
	if bin == "" {
		bin = DefaultBin
	}

	cmd := exec.CommandContext(ctx, bin, "-w", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s -w %s: %w (%s)", bin, path, err, trimCommandOutput(stderr.String()))
	}
	if stdout.Len() == 0 {
		return "", fmt.Errorf("%s -w %s: empty output", bin, path)
	}
	return stdout.String(), nil
}

func trimCommandOutput(out string) string {
	clean := strings.TrimSpace(out)
	if clean == "" {
		return "command failed"
	}
	if len(clean) > maxCommandError {
		return clean[:maxCommandError] + "..."
	}
	return clean
}
