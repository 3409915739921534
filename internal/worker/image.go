package worker

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"time"

	// Banner templates and profile pictures arrive as PNG, JPEG or GIF.
	_ "image/gif"
	_ "image/jpeg"
)

const profileMargin = 4

var imageHTTP = &http.Client{Timeout: 15 * time.Second}

func fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := imageHTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}

// composeInstanceImage draws the user's profile picture into the
// bottom-left corner of the banner template and re-encodes as PNG.
func composeInstanceImage(bannerBytes, profileBytes []byte) ([]byte, error) {
	banner, _, err := image.Decode(bytes.NewReader(bannerBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode banner image: %w", err)
	}
	profile, _, err := image.Decode(bytes.NewReader(profileBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode profile picture: %w", err)
	}

	bounds := banner.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, banner, bounds.Min, draw.Src)

	offset := image.Pt(
		bounds.Min.X+profileMargin,
		bounds.Max.Y-profile.Bounds().Dy()-profileMargin,
	)
	draw.Draw(canvas, profile.Bounds().Add(offset), profile, profile.Bounds().Min, draw.Over)

	var out bytes.Buffer
	if err := png.Encode(&out, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode composed image: %w", err)
	}
	return out.Bytes(), nil
}
