package github

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/kfetch/internal/model"
)

const feedJSON = `[
  {
    "name": "6.1.70-locietta-WSL2-xanmod1.1-lts",
    "tag_name": "6.1.70-locietta-WSL2-xanmod1.1-lts",
    "prerelease": false,
    "assets": [
      {
        "name": "bzImage-x64v3",
        "size": 12345,
        "browser_download_url": "https://github.com/Locietta/xanmod-kernel-WSL2/releases/download/6.1.70/bzImage-x64v3"
      }
    ]
  },
  {
    "name": "6.7.1-locietta-WSL2-xanmod1.1",
    "tag_name": "6.7.1-locietta-WSL2-xanmod1.1",
    "prerelease": false,
    "assets": []
  }
]`

func newMockClient() (*Client, *httpmock.MockTransport) {
	transport := httpmock.NewMockTransport()
	return NewClient(&http.Client{Transport: transport}, "test"), transport
}

func TestReleases(t *testing.T) {
	client, transport := newMockClient()
	transport.RegisterResponder(http.MethodGet, DefaultReleasesURL, httpmock.NewStringResponder(http.StatusOK, feedJSON))

	releases, err := client.Releases(context.Background(), DefaultReleasesURL)
	require.NoError(t, err)
	require.Len(t, releases, 2)

	assert.Equal(t, "6.1.70-locietta-WSL2-xanmod1.1-lts", releases[0].Name)
	assert.Equal(t, []model.Asset{{
		Name:               "bzImage-x64v3",
		Size:               12345,
		BrowserDownloadURL: "https://github.com/Locietta/xanmod-kernel-WSL2/releases/download/6.1.70/bzImage-x64v3",
	}}, releases[0].Assets)
	assert.Empty(t, releases[1].Assets)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestReleasesSendsUserAgent(t *testing.T) {
	client, transport := newMockClient()
	transport.RegisterResponder(http.MethodGet, DefaultReleasesURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "kfetch/test", req.Header.Get("User-Agent"))
		assert.Empty(t, req.Header.Get("Authorization"))
		return httpmock.NewStringResponse(http.StatusOK, "[]"), nil
	})

	releases, err := client.Releases(context.Background(), DefaultReleasesURL)
	require.NoError(t, err)
	assert.Empty(t, releases)
}

func TestReleasesFailures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		wantText  string
	}{
		{"forbidden", httpmock.NewStringResponder(http.StatusForbidden, "rate limited"), "status 403: rate limited"},
		{"broken json", httpmock.NewStringResponder(http.StatusOK, `[{"name": `), "decode releases"},
		{"transport", httpmock.NewErrorResponder(errors.New("connection refused")), "connection refused"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, transport := newMockClient()
			transport.RegisterResponder(http.MethodGet, DefaultReleasesURL, tc.responder)

			_, err := client.Releases(context.Background(), DefaultReleasesURL)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFeedUnavailable)
			assert.Contains(t, err.Error(), tc.wantText)
		})
	}
}

func TestDownload(t *testing.T) {
	const url = "https://example.test/bzImage-x64v3"

	client, transport := newMockClient()
	transport.RegisterResponder(http.MethodGet, url, httpmock.NewBytesResponder(http.StatusOK, []byte("kernel-bytes")))

	data, err := client.Download(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, []byte("kernel-bytes"), data)

	transport.RegisterResponder(http.MethodGet, url, httpmock.NewStringResponder(http.StatusNotFound, "Not Found"))
	_, err = client.Download(context.Background(), url)
	assert.ErrorIs(t, err, ErrDownloadFailed)
}
