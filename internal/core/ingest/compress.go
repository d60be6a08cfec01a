package ingest

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

const (
	dataURIPrefix = "data:image/jpeg;base64,"
	maxPixels     = 50_000_000
)

var ErrImageTooBig = errors.New("image dimensions too big")

type Options struct {
	MaxWidth int
	Quality  float64
}

// Compress decodes f, scales it down to opts.MaxWidth when wider, and
// re-encodes it as a JPEG data URI.
func Compress(f File, opts Options) (string, error) {
	cfg, err := decodeConfig(f)
	if err != nil {
		return "", err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", fmt.Errorf("%q: empty image", f.Name())
	}
	if cfg.Width*cfg.Height > maxPixels {
		return "", fmt.Errorf("%q: %w", f.Name(), ErrImageTooBig)
	}

	img, err := decode(f)
	if err != nil {
		return "", err
	}

	w, h := scaledSize(img.Bounds().Dx(), img.Bounds().Dy(), opts.MaxWidth)
	if w != img.Bounds().Dx() {
		img = resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Over)

	var buf bytes.Buffer
	err = jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality(opts.Quality)})
	if err != nil {
		return "", fmt.Errorf("%q: encode: %w", f.Name(), err)
	}

	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeConfig(f File) (image.Config, error) {
	r, err := f.Open()
	if err != nil {
		return image.Config{}, fmt.Errorf("%q: open: %w", f.Name(), err)
	}
	defer r.Close()

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("%q: decode: %w", f.Name(), err)
	}
	return cfg, nil
}

func decode(f File) (image.Image, error) {
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%q: open: %w", f.Name(), err)
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%q: decode: %w", f.Name(), err)
	}
	return img, nil
}

// scaledSize keeps the aspect ratio while bounding the width by maxWidth.
func scaledSize(w, h, maxWidth int) (int, int) {
	if maxWidth <= 0 || w <= maxWidth {
		return w, h
	}
	nh := int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
	return maxWidth, max(nh, 1)
}

func jpegQuality(q float64) int {
	return min(max(int(math.Round(q*100)), 1), 100)
}
