// Package updater runs the kernel update pipeline: fetch the release feed,
// select the newest acceptable release, compare it with the kernel configured
// in .wslconfig, download the image and point .wslconfig at it.
package updater

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/3leaps/kfetch/internal/install"
	"github.com/3leaps/kfetch/internal/model"
	"github.com/3leaps/kfetch/internal/release"
	"github.com/3leaps/kfetch/internal/verify"
	"github.com/3leaps/kfetch/internal/wslconfig"
	"github.com/3leaps/kfetch/internal/wslpath"
	"github.com/3leaps/kfetch/pkg/kversion"
	"github.com/3leaps/kfetch/pkg/update"
)

// ErrMalformedVersionName indicates a kernel name that must be fully parsed
// (the newest release or the configured kernel) is not.
var ErrMalformedVersionName = errors.New("malformed version name")

// ReleaseSource fetches the release feed and asset bodies.
type ReleaseSource interface {
	Releases(ctx context.Context, url string) ([]model.Release, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Options configure a single run.
type Options struct {
	ReleasesURL   string
	AssetName     string
	Filter        release.Filter
	WSLConfigPath string
	DownloadDir   string
	// MinisignKey enables signature verification when non-empty.
	MinisignKey string
	Force       bool
	DryRun      bool
}

// Plan is the outcome of comparing the configured kernel with the feed.
type Plan struct {
	Newest       release.Candidate
	CurrentValue string
	CurrentName  string
	Current      kversion.Version
	Decision     update.Decision
	Message      string
}

// Result describes what Run did.
type Result struct {
	Plan
	DownloadURL string
	KernelPath  string
	WindowsPath string
	Bytes       int64
	Applied     bool
}

type Updater struct {
	source ReleaseSource
	paths  wslpath.Translator
	logger *slog.Logger
	out    io.Writer
}

// New returns an Updater. Progress lines meant for the user are written to
// out; diagnostics go to logger.
func New(source ReleaseSource, paths wslpath.Translator, logger *slog.Logger, out io.Writer) *Updater {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if out == nil {
		out = io.Discard
	}
	return &Updater{source: source, paths: paths, logger: logger, out: out}
}

// List returns the releases accepted by opts.Filter, newest first.
func (u *Updater) List(ctx context.Context, opts Options) ([]release.Candidate, error) {
	releases, err := u.fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	candidates, err := release.Candidates(releases, opts.Filter)
	if err != nil {
		return nil, err
	}
	slices.Reverse(candidates)
	return candidates, nil
}

// Check selects the newest release, reads the configured kernel and decides
// whether an update applies. When it does, the kernel line must also be
// rewritable, so a drifted .wslconfig fails before anything is downloaded.
// Nothing is downloaded or written.
func (u *Updater) Check(ctx context.Context, opts Options) (Plan, error) {
	fmt.Fprintln(u.out, "Downloading kernel version info")
	releases, err := u.fetch(ctx, opts)
	if err != nil {
		return Plan{}, err
	}

	newest, err := release.Select(releases, opts.Filter)
	if err != nil {
		return Plan{}, err
	}
	if !newest.Version.Parsed() {
		// Degenerate names compare equal to every release, so one near the
		// end of the feed wins the selection.
		u.logger.Warn("newest release name is not a full version",
			"release", newest.Release.Name, "kind", newest.Version.Kind.String())
		return Plan{}, fmt.Errorf("%w: newest release %q", ErrMalformedVersionName, newest.Release.Name)
	}
	u.logger.Debug("selected release", "release", newest.Release.Name, "version", newest.Version.String())

	currentValue, err := wslconfig.CurrentKernel(opts.WSLConfigPath)
	if err != nil {
		return Plan{}, err
	}
	currentName := wslconfig.KernelName(currentValue)
	current, err := kversion.Parse(currentName)
	if err != nil {
		return Plan{}, fmt.Errorf("parse configured kernel %q: %w", currentName, err)
	}
	if !current.Parsed() {
		return Plan{}, fmt.Errorf("%w: configured kernel %q", ErrMalformedVersionName, currentName)
	}
	u.logger.Debug("configured kernel", "path", currentValue, "version", current.String())

	fmt.Fprintf(u.out, "Current version: %s\n", currentName)
	fmt.Fprintf(u.out, "Newest version:  %s\n", newest.Release.Name)

	decision, msg := update.Decide(current, newest.Version, opts.Force)
	if decision.Apply() {
		if err := wslconfig.CheckRewritable(opts.WSLConfigPath, currentValue); err != nil {
			return Plan{}, fmt.Errorf("%s cannot be updated: %w", opts.WSLConfigPath, err)
		}
	}
	return Plan{
		Newest:       newest,
		CurrentValue: currentValue,
		CurrentName:  currentName,
		Current:      current,
		Decision:     decision,
		Message:      msg,
	}, nil
}

// Run performs Check and, when the decision applies, installs the newest
// kernel. Nothing is written when opts.DryRun is set.
func (u *Updater) Run(ctx context.Context, opts Options) (Result, error) {
	plan, err := u.Check(ctx, opts)
	if err != nil {
		return Result{}, err
	}
	res := Result{Plan: plan}

	fmt.Fprintln(u.out, plan.Message)
	if !plan.Decision.Apply() {
		return res, nil
	}

	url, err := release.DownloadURL(plan.Newest.Release, opts.AssetName)
	if err != nil {
		return res, err
	}
	res.DownloadURL = url

	target, err := install.TargetPath(opts.DownloadDir, plan.Newest.Release.Name)
	if err != nil {
		return res, err
	}
	res.KernelPath = target

	exists, err := install.Exists(target)
	if err != nil {
		return res, err
	}
	if exists {
		return res, fmt.Errorf("%w: %s", install.ErrAlreadyExists, target)
	}

	if opts.DryRun {
		fmt.Fprintf(u.out, "Dry run: would download %s to %s\n", url, target)
		return res, nil
	}

	fmt.Fprintf(u.out, "Downloading kernel from %s\n", url)
	content, err := u.source.Download(ctx, url)
	if err != nil {
		return res, err
	}
	u.logger.Debug("downloaded kernel image", "url", url, "bytes", len(content))

	if opts.MinisignKey != "" {
		if err := u.verify(ctx, plan.Newest.Release, opts, content); err != nil {
			return res, err
		}
	}

	n, err := install.WriteNew(target, bytes.NewReader(content))
	if err != nil {
		return res, err
	}
	res.Bytes = n
	fmt.Fprintf(u.out, "Downloaded kernel to %s\n", target)

	fmt.Fprintln(u.out, "Updating wsl config to use new kernel")
	winPath, err := u.paths.ToWindows(ctx, target)
	if err != nil {
		return res, fmt.Errorf("translate %s: %w", target, err)
	}
	res.WindowsPath = winPath

	if err := wslconfig.UpdateFile(opts.WSLConfigPath, plan.CurrentValue, winPath); err != nil {
		return res, fmt.Errorf("update %s: %w", opts.WSLConfigPath, err)
	}
	res.Applied = true
	u.logger.Info("kernel updated", "release", plan.Newest.Release.Name, "path", target)

	fmt.Fprintln(u.out, "Done, restart wsl to use the new kernel")
	return res, nil
}

func (u *Updater) fetch(ctx context.Context, opts Options) ([]model.Release, error) {
	u.logger.Debug("fetching releases", "url", opts.ReleasesURL)
	releases, err := u.source.Releases(ctx, opts.ReleasesURL)
	if err != nil {
		return nil, err
	}
	u.logger.Debug("fetched releases", "count", len(releases))
	return releases, nil
}

func (u *Updater) verify(ctx context.Context, rel model.Release, opts Options, content []byte) error {
	sigAsset, err := verify.FindSignature(rel, opts.AssetName)
	if err != nil {
		return err
	}
	sig, err := u.source.Download(ctx, sigAsset.BrowserDownloadURL)
	if err != nil {
		return fmt.Errorf("download signature: %w", err)
	}
	if err := verify.VerifyMinisign(content, sig, opts.MinisignKey); err != nil {
		return err
	}
	u.logger.Info("minisign signature verified", "asset", sigAsset.Name)
	return nil
}
