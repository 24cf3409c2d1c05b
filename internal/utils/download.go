package utils

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	// 写真でよく使われるフォーマットを登録
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DownloadImageMaxBytes ダウンロードする画像の上限サイズ
const DownloadImageMaxBytes = 20 * 1024 * 1024

// ImageDownloader downloads and decodes images from attachment URLs.
type ImageDownloader struct {
	client    *http.Client
	userAgent string
}

// NewImageDownloader creates a downloader with the given timeout.
func NewImageDownloader(timeout time.Duration, userAgent string) *ImageDownloader {
	return &ImageDownloader{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads the URL and decodes it as an image.
func (d *ImageDownloader) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, DownloadImageMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
