package notify

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxArtSize bounds a downloaded cover.
const maxArtSize = 4 << 20

// ErrNoArt is returned when a track has no usable cover.
var ErrNoArt = errors.New("no album art")

// ArtCache downloads album art served by the speakers into a directory, so
// notifications can point at a local file. It is safe for concurrent use.
type ArtCache struct {
	dir        string
	httpClient *http.Client
}

// NewArtCache creates a cache storing covers under dir.
func NewArtCache(dir string) *ArtCache {
	return &ArtCache{
		dir: dir,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Path returns the local file holding the cover at uri, fetching it on
// first use.
func (c *ArtCache) Path(ctx context.Context, uri string) (string, error) {
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		return "", ErrNoArt
	}

	h := fnv.New64a()
	h.Write([]byte(uri))
	path := filepath.Join(c.dir, fmt.Sprintf("%x.img", h.Sum64()))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return "", ErrNoArt
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create art dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, "art-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, io.LimitReader(resp.Body, maxArtSize))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write art: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("store art: %w", err)
	}
	return path, nil
}
