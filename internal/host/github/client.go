package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/3leaps/kfetch/internal/model"
)

// DefaultReleasesURL is the release feed of the xanmod WSL2 kernel builds.
const DefaultReleasesURL = "https://api.github.com/repos/Locietta/xanmod-kernel-WSL2/releases"

const maxErrorBody = 512

var (
	ErrFeedUnavailable = errors.New("unable to download list of recent kernel releases")
	ErrDownloadFailed  = errors.New("unable to download kernel")
)

// Client fetches the release feed and release assets. Only the first page
// of the feed is read.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient returns a Client using httpClient, or a client with a 30s
// timeout when httpClient is nil.
func NewClient(httpClient *http.Client, version string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{http: httpClient, userAgent: UserAgent(version)}
}

func UserAgent(version string) string {
	return fmt.Sprintf("kfetch/%s", version)
}

// Releases decodes the release list served at url.
func (c *Client) Releases(ctx context.Context, url string) ([]model.Release, error) {
	body, err := c.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	defer body.Close()

	var releases []model.Release
	if err := json.NewDecoder(body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("%w: decode releases: %w", ErrFeedUnavailable, err)
	}
	return releases, nil
}

// Download returns the full body served at url.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	body, err := c.get(ctx, url, "application/octet-stream")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrDownloadFailed, err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, url, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return resp.Body, nil
}
