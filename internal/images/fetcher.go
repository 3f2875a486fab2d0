package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bookresolver/internal/models"
)

// Covers smaller than this are the Covers API's blank placeholder.
const minImageBytes = 1000

// Fetcher downloads cover images to disk
type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
}

// NewFetcher creates a new image fetcher
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: userAgent,
	}
}

// Download is one cover written to disk
type Download struct {
	URL    string `json:"url" yaml:"url"`
	Path   string `json:"path" yaml:"path"`
	Bytes  int    `json:"bytes" yaml:"bytes"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// DownloadAll writes every image into outputDir as <prefix>_<n>_<name>.
// Failed images are logged and skipped; an error is returned only when
// images were requested and none could be saved.
func (f *Fetcher) DownloadAll(ctx context.Context, imgs []models.ExternalImage, outputDir, prefix string) ([]Download, error) {
	if len(imgs) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var downloads []Download
	for i, img := range imgs {
		outputPath := filepath.Join(outputDir, fileName(prefix, i+1, img.URL))
		d, err := f.download(ctx, img.URL, outputPath)
		if err != nil {
			slog.Warn("Failed to download cover image", "url", img.URL, "error", err)
			continue
		}
		slog.Info("Downloaded cover image", "url", img.URL, "path", d.Path, "width", d.Width, "height", d.Height)
		downloads = append(downloads, d)
	}

	if len(downloads) == 0 {
		return nil, fmt.Errorf("no images could be downloaded for %s", prefix)
	}
	return downloads, nil
}

func (f *Fetcher) download(ctx context.Context, url, outputPath string) (Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Download{}, fmt.Errorf("failed to create request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return Download{}, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Download{}, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return Download{}, fmt.Errorf("failed to read image data: %w", err)
	}

	if len(imageData) < minImageBytes {
		return Download{}, fmt.Errorf("image too small (likely placeholder), size: %d bytes", len(imageData))
	}

	if err := os.WriteFile(outputPath, imageData, 0644); err != nil {
		return Download{}, fmt.Errorf("failed to write image file: %w", err)
	}

	d := Download{URL: url, Path: outputPath, Bytes: len(imageData)}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData)); err == nil {
		d.Width, d.Height = cfg.Width, cfg.Height
	} else {
		slog.Debug("Failed to get image dimensions", "url", url, "error", err)
	}
	return d, nil
}

// fileName builds a filesystem safe name from the output id and the URL's last segment.
func fileName(prefix string, n int, url string) string {
	base := path.Base(strings.SplitN(url, "?", 2)[0])
	if base == "." || base == "/" {
		base = "cover.jpg"
	}
	return fmt.Sprintf("%s_%d_%s", sanitize(prefix), n, sanitize(base))
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
