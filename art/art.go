// Package art fetches album artwork for notifications. Fetching is strictly
// best-effort: every failure mode (bad scheme, network error, oversized or
// corrupt payload, deadline overrun) folds into a nil result, and the caller
// sends the notification without an icon.
package art

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"

	"github.com/l1na-forever/mpris-notifier/bus"
	"github.com/l1na-forever/mpris-notifier/cache"
	"github.com/l1na-forever/mpris-notifier/logger"
)

const (
	// sizeLimit caps artwork downloads (~5MB)
	sizeLimit = 5_000_000

	// thumbnailSize bounds the generated notification icon to
	// thumbnailSize x thumbnailSize pixels
	thumbnailSize = 256

	// bodyTTL keeps downloaded bytes around long enough to absorb the
	// bursts of PropertiesChanged signals some players emit per track
	bodyTTL = 30 * time.Second
)

// Fetcher retrieves artwork URIs and re-encodes them to the notification
// image wire format under a hard wall-clock deadline.
type Fetcher struct {
	client *retryablehttp.Client
	bodies *cache.Cache[[]byte]
}

func NewFetcher() *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 1
	client.RetryWaitMin = 50 * time.Millisecond
	client.Logger = nil

	return &Fetcher{
		client: client,
		bodies: cache.New[[]byte](bodyTTL),
	}
}

// Fetch retrieves and re-encodes the artwork at uri, returning nil if the
// whole sequence cannot complete within deadline. The abandoned goroutine
// owns no shared state, so timing out cannot corrupt the caller.
func (f *Fetcher) Fetch(uri string, deadline time.Duration) *bus.ImageData {
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	done := make(chan *bus.ImageData, 1)
	go func() { done <- f.fetch(ctx, uri) }()

	select {
	case img := <-done:
		return img
	case <-ctx.Done():
		logger.Warn("[art] fetch for %s exceeded %s deadline, sending without artwork", uri, deadline)
		return nil
	}
}

func (f *Fetcher) fetch(ctx context.Context, uri string) *bus.ImageData {
	parsed, err := url.Parse(uri)
	if err != nil {
		logger.Debug("[art] unparseable art URI %q: %v", uri, err)
		return nil
	}

	var body []byte
	switch parsed.Scheme {
	case "file":
		body, err = os.ReadFile(parsed.Path)
	case "http", "https":
		body, err = f.fetchURL(ctx, uri)
	default:
		logger.Debug("[art] unsupported art URI scheme %q", parsed.Scheme)
		return nil
	}
	if err != nil {
		logger.Warn("[art] failed to fetch %s: %v", uri, err)
		return nil
	}

	img := decode(body)
	if img == nil {
		logger.Warn("[art] failed to decode artwork from %s", uri)
	}
	return img
}

// fetchURL downloads artwork over HTTP, serving repeated requests for the
// same URL from the body cache.
func (f *Fetcher) fetchURL(ctx context.Context, uri string) ([]byte, error) {
	if body, ok := f.bodies.Get(uri); ok {
		logger.Debug("[art] cache hit for %s", uri)
		return body, nil
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", uri, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, sizeLimit))
	if err != nil {
		return nil, err
	}

	f.bodies.Set(uri, body)
	return body, nil
}

// decode turns raster bytes into the raw RGB layout of the image-data hint.
// Returns nil for unsupported or corrupt payloads.
func decode(body []byte) *bus.ImageData {
	src, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	thumb := resize.Thumbnail(thumbnailSize, thumbnailSize, src, resize.Lanczos3)
	bounds := thumb.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	pixels := make([]byte, 0, w*h*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := thumb.At(x, y).RGBA()
			pixels = append(pixels, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}

	return &bus.ImageData{
		Width:         int32(w),
		Height:        int32(h),
		Rowstride:     int32(w * 3),
		HasAlpha:      false,
		BitsPerSample: 8,
		Channels:      3,
		Pixels:        pixels,
	}
}
