package wslconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Section is the .wslconfig section holding the kernel option.
const Section = "wsl2"

var (
	ErrMissingFile    = errors.New("wslconfig not found")
	ErrMissingSection = errors.New("wslconfig is missing required wsl2 section")
	ErrMissingKernel  = errors.New("wslconfig is missing required kernel option")
)

var loadOptions = ini.LoadOptions{
	Insensitive:         true,
	IgnoreInlineComment: true,
	IgnoreContinuation:  true,
}

// CurrentKernel returns the raw value of the kernel option in the wsl2
// section of the file at path.
func CurrentKernel(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	// #nosec G304 -- path is the user's configured .wslconfig
	cfg, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	return kernelFrom(cfg)
}

// ParseKernel is CurrentKernel for an in-memory document.
func ParseKernel(document []byte) (string, error) {
	cfg, err := ini.LoadSources(loadOptions, document)
	if err != nil {
		return "", fmt.Errorf("parse wslconfig: %w", err)
	}
	return kernelFrom(cfg)
}

func kernelFrom(cfg *ini.File) (string, error) {
	if !cfg.HasSection(Section) {
		return "", ErrMissingSection
	}
	sec := cfg.Section(Section)
	if !sec.HasKey(Key) {
		return "", ErrMissingKernel
	}
	return sec.Key(Key).String(), nil
}

// CheckRewritable reports whether UpdateFile could move the kernel line of
// the file at path away from current, without writing anything.
func CheckRewritable(path, current string) error {
	document, _, err := readDocument(path)
	if err != nil {
		return err
	}
	_, err = Rewrite(document, current, "")
	return err
}

// readDocument returns the file with CRLF line endings folded to LF and
// whether any were found. Files written by Windows editors use CRLF.
func readDocument(path string) (string, bool, error) {
	// #nosec G304 -- path is the user's configured .wslconfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return "", false, fmt.Errorf("read wslconfig: %w", err)
	}
	document := string(data)
	if !strings.Contains(document, "\r\n") {
		return document, false, nil
	}
	return strings.ReplaceAll(document, "\r\n", "\n"), true, nil
}

// UpdateFile rewrites the kernel line of the file at path from current to
// next. The file is only replaced after Rewrite succeeds, through a
// temporary file in the same directory, so a failure leaves the original
// untouched. CRLF files are matched as LF and written back with CRLF.
func UpdateFile(path, current, next string) error {
	document, crlf, err := readDocument(path)
	if err != nil {
		return err
	}

	updated, err := Rewrite(document, current, next)
	if err != nil {
		return err
	}
	if crlf {
		updated = strings.ReplaceAll(updated, "\n", "\r\n")
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".wslconfig-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp wslconfig: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(updated); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp wslconfig: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp wslconfig: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp wslconfig: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp wslconfig: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace wslconfig: %w", err)
	}
	return nil
}
