// Package config loads and validates the kfetch configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/3leaps/kfetch/internal/host/github"
	"github.com/3leaps/kfetch/internal/release"
	"github.com/3leaps/kfetch/internal/wslpath"
)

// DefaultAsset is the kernel image published for x86-64-v3 machines.
const DefaultAsset = "bzImage-x64v3"

var httpURL = regexp.MustCompile(`^https?://`)

// Config represents the application configuration.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Feed   FeedConfig   `yaml:"feed"`
	Filter FilterConfig `yaml:"filter"`
	WSL    WSLConfig    `yaml:"wsl"`
	Force  bool         `yaml:"force"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Feed.Validate(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if err := c.WSL.Validate(); err != nil {
		return fmt.Errorf("wsl: %w", err)
	}
	return nil
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// FeedConfig describes where releases come from and which asset to take.
type FeedConfig struct {
	URL   string `yaml:"url"`
	Asset string `yaml:"asset"`
	// MinisignKey is a path to a minisign public key. When set, the kernel
	// image must carry a valid <asset>.minisig signature.
	MinisignKey string `yaml:"minisign_key"`
}

// Validate validates the feed configuration.
func (c *FeedConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required, validation.Match(httpURL).Error("must be an http(s) URL")),
		validation.Field(&c.Asset, validation.Required),
	)
}

// FilterConfig restricts release selection. Zero Major/Minor mean "any".
// LTS and Major/Minor are mutually exclusive, and Minor requires Major.
type FilterConfig struct {
	LTS   bool `yaml:"lts"`
	Major int  `yaml:"major"`
	Minor int  `yaml:"minor"`
}

// Validate validates the filter configuration.
func (c *FilterConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Major, validation.Min(0)),
		validation.Field(&c.Minor, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.LTS && (c.Major != 0 || c.Minor != 0) {
		return errors.New("lts and major/minor restrictions are mutually exclusive")
	}
	if c.Minor != 0 && c.Major == 0 {
		return errors.New("minor restriction requires major")
	}
	return nil
}

// ReleaseFilter converts the configuration into the active release filter.
func (c FilterConfig) ReleaseFilter() release.Filter {
	switch {
	case c.LTS:
		return release.LTSOnly{}
	case c.Major != 0 && c.Minor != 0:
		return release.MajorMinor{Major: c.Major, Minor: c.Minor}
	case c.Major != 0:
		return release.MajorOnly{Major: c.Major}
	default:
		return release.Unrestricted{}
	}
}

// WSLConfig locates the WSL side of the update.
type WSLConfig struct {
	ConfigPath  string `yaml:"config_path"`
	DownloadDir string `yaml:"download_dir"`
	WSLPath     string `yaml:"wslpath"`
}

// Validate validates the WSL configuration.
func (c *WSLConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ConfigPath, validation.Required),
		validation.Field(&c.DownloadDir, validation.Required),
		validation.Field(&c.WSLPath, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			LogLevel: slog.LevelInfo,
		},
		Feed: FeedConfig{
			URL:   github.DefaultReleasesURL,
			Asset: DefaultAsset,
		},
		Filter: FilterConfig{
			LTS: true,
		},
		WSL: WSLConfig{
			WSLPath: wslpath.DefaultBin,
		},
	}
}
