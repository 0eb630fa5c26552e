package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	ucli "github.com/urfave/cli/v3"

	"github.com/3leaps/kfetch/internal/cli"
	"github.com/3leaps/kfetch/internal/config"
	"github.com/3leaps/kfetch/internal/host/github"
	"github.com/3leaps/kfetch/internal/hostenv"
	"github.com/3leaps/kfetch/internal/updater"
	"github.com/3leaps/kfetch/internal/wslpath"
)

var version = "dev"

const appName = "kfetch"

// app carries the streams of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	cmd := a.command()
	if err := cmd.Run(context.Background(), append([]string{appName}, args...)); err != nil {
		return cli.Fail(stderr, err)
	}
	return cli.ExitOK
}

func (a *app) command() *ucli.Command {
	return &ucli.Command{
		Name:      appName,
		Usage:     "Keep the xanmod WSL2 kernel configured in .wslconfig up to date",
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Action:    a.update,
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: <user config dir>/kfetch/config.yaml when present)",
				Sources: ucli.EnvVars("KFETCH_CONFIG"),
			},
			&ucli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: ucli.EnvVars("KFETCH_LOG_LEVEL"),
			},
			&ucli.BoolFlag{
				Name:  "lts",
				Usage: "Only consider LTS releases",
			},
			&ucli.StringFlag{
				Name:  "major",
				Usage: "Only consider releases whose name starts with this major version",
			},
			&ucli.StringFlag{
				Name:  "minor",
				Usage: "Together with --major, only consider X.Y releases",
			},
			&ucli.StringFlag{
				Name:    "wslconfig",
				Usage:   "Path to .wslconfig",
				Sources: ucli.EnvVars("KFETCH_WSLCONFIG"),
			},
			&ucli.StringFlag{
				Name:    "download-dir",
				Usage:   "Directory kernel images are downloaded to",
				Sources: ucli.EnvVars("KFETCH_DOWNLOAD_DIR"),
			},
			&ucli.StringFlag{
				Name:  "asset",
				Usage: "Kernel image asset name",
			},
			&ucli.StringFlag{
				Name:  "releases-url",
				Usage: "GitHub releases API URL",
			},
			&ucli.StringFlag{
				Name:  "minisign-key",
				Usage: "Minisign public key; requires a valid <asset>.minisig",
			},
			&ucli.StringFlag{
				Name:  "wslpath",
				Usage: "wslpath binary used to translate the download path",
			},
			&ucli.BoolFlag{
				Name:    "force",
				Usage:   "Install even when the configured kernel is not older",
				Sources: ucli.EnvVars("KFETCH_FORCE"),
			},
			&ucli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would be done without downloading or writing",
			},
		},
		Commands: []*ucli.Command{
			{
				Name:   "update",
				Usage:  "Download the newest kernel and point .wslconfig at it",
				Action: a.update,
			},
			{
				Name:  "check",
				Usage: "Compare the configured kernel with the newest release",
				Flags: []ucli.Flag{
					&ucli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
				},
				Action: a.check,
			},
			{
				Name:   "list",
				Usage:  "List releases accepted by the filter, newest first",
				Action: a.list,
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(_ context.Context, _ *ucli.Command) error {
					fmt.Fprintln(a.stdout, appName, version)
					return nil
				},
			},
		},
	}
}

// session is everything a pipeline command needs after flags and the config
// file are resolved.
type session struct {
	cfg     *config.Config
	updater *updater.Updater
}

// session resolves the configuration for cmd. Progress lines go to out.
func (a *app) session(cmd *ucli.Command, requireWSL bool, out io.Writer) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Feed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: feed: %w", err)
	}
	if err := cfg.Filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: filter: %w", err)
	}
	if requireWSL {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	logHost(logger)

	client := github.NewClient(nil, version)
	paths := wslpath.Command{Bin: cfg.WSL.WSLPath}
	return &session{
		cfg:     cfg,
		updater: updater.New(client, paths, logger, out),
	}, nil
}

func (s *session) options(cmd *ucli.Command) updater.Options {
	return updater.Options{
		ReleasesURL:   s.cfg.Feed.URL,
		AssetName:     s.cfg.Feed.Asset,
		Filter:        s.cfg.Filter.ReleaseFilter(),
		WSLConfigPath: s.cfg.WSL.ConfigPath,
		DownloadDir:   s.cfg.WSL.DownloadDir,
		MinisignKey:   s.cfg.Feed.MinisignKey,
		Force:         s.cfg.Force,
		DryRun:        cmd.Bool("dry-run"),
	}
}

func (a *app) update(ctx context.Context, cmd *ucli.Command) error {
	s, err := a.session(cmd, true, a.stdout)
	if err != nil {
		return err
	}
	if _, err := s.updater.Run(ctx, s.options(cmd)); err != nil {
		return err
	}
	return nil
}

type checkReport struct {
	Current   string `json:"current"`
	Newest    string `json:"newest"`
	Release   string `json:"release"`
	Decision  string `json:"decision"`
	Message   string `json:"message"`
	Available bool   `json:"update_available"`
}

func (a *app) check(ctx context.Context, cmd *ucli.Command) error {
	out := a.stdout
	if cmd.Bool("json") {
		// Keep stdout clean for the JSON document.
		out = io.Discard
	}
	s, err := a.session(cmd, true, out)
	if err != nil {
		return err
	}

	plan, err := s.updater.Check(ctx, s.options(cmd))
	if err != nil {
		return err
	}

	if !cmd.Bool("json") {
		fmt.Fprintf(a.stdout, "%s: %s\n", plan.Decision, plan.Message)
		return nil
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(checkReport{
		Current:   plan.Current.String(),
		Newest:    plan.Newest.Version.String(),
		Release:   plan.Newest.Release.Name,
		Decision:  string(plan.Decision),
		Message:   plan.Message,
		Available: plan.Decision.Apply(),
	})
}

func (a *app) list(ctx context.Context, cmd *ucli.Command) error {
	s, err := a.session(cmd, false, a.stdout)
	if err != nil {
		return err
	}
	candidates, err := s.updater.List(ctx, s.options(cmd))
	if err != nil {
		return err
	}
	for _, c := range candidates {
		fmt.Fprintf(a.stdout, "%-45s %s\n", c.Release.Name, c.Version)
	}
	return nil
}

func loadConfig(cmd *ucli.Command) (*config.Config, error) {
	cfg := config.NewDefaultConfig()

	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}
	if err := config.Load(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultConfigPath returns the per-user config file when it exists.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, appName, "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func applyFlags(cmd *ucli.Command, cfg *config.Config) error {
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}

	if cmd.IsSet("major") {
		major, err := parseRestriction("major", cmd.String("major"))
		if err != nil {
			return err
		}
		cfg.Filter.Major = major
		cfg.Filter.Minor = 0
		cfg.Filter.LTS = false
	}
	if cmd.IsSet("minor") {
		minor, err := parseRestriction("minor", cmd.String("minor"))
		if err != nil {
			return err
		}
		cfg.Filter.Minor = minor
		cfg.Filter.LTS = false
	}
	if cmd.IsSet("lts") {
		cfg.Filter.LTS = cmd.Bool("lts")
	}

	setString := func(flag string, dst *string) {
		if cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}
	setString("wslconfig", &cfg.WSL.ConfigPath)
	setString("download-dir", &cfg.WSL.DownloadDir)
	setString("wslpath", &cfg.WSL.WSLPath)
	setString("asset", &cfg.Feed.Asset)
	setString("releases-url", &cfg.Feed.URL)
	setString("minisign-key", &cfg.Feed.MinisignKey)

	if cmd.IsSet("force") {
		cfg.Force = cmd.Bool("force")
	}
	return nil
}

func parseRestriction(flag, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("--%s: %q is not a non-negative integer", flag, raw)
	}
	return n, nil
}

func logHost(logger *slog.Logger) {
	kernel, err := hostenv.RunningKernel()
	if err != nil {
		logger.Debug("running kernel unknown", "error", err)
		return
	}
	if !kernel.WSL {
		logger.Warn("not running under WSL; .wslconfig changes only apply to WSL2", "kernel", kernel.Release)
		return
	}
	logger.Debug("running kernel", "kernel", kernel.Release)
}
