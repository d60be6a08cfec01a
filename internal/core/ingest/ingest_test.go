package ingest_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/niksmo/misslily/internal/core/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDataURI(t *testing.T, ref string) image.Config {
	t.Helper()
	require.True(t, strings.HasPrefix(ref, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(
		strings.TrimPrefix(ref, "data:image/jpeg;base64,"),
	)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	return cfg
}

// sizedFile reports a size unrelated to its content.
type sizedFile struct {
	ingest.File
	size int64
}

func (f sizedFile) Size() int64 { return f.size }

type brokenFile struct{}

func (brokenFile) Name() string        { return "broken.png" }
func (brokenFile) ContentType() string { return "image/png" }
func (brokenFile) Size() int64         { return 10 }
func (brokenFile) Open() (io.ReadCloser, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestValidate(t *testing.T) {
	t.Run("AllowedTypes", func(t *testing.T) {
		for _, ct := range []string{
			"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp",
			"IMAGE/PNG",
		} {
			f := ingest.NewFile("a", ct, []byte("x"))
			assert.NoError(t, ingest.Validate(f, 5<<20), ct)
		}
	})

	t.Run("InvalidType", func(t *testing.T) {
		f := ingest.NewFile("a.txt", "text/plain", []byte("hello"))
		err := ingest.Validate(f, 5<<20)
		require.Error(t, err)
		assert.ErrorIs(t, err, ingest.ErrInvalidType)
		assert.Equal(t,
			"Invalid file type. Please upload JPEG, PNG, GIF, or WebP images.",
			err.Error(),
		)
	})

	t.Run("TooLarge", func(t *testing.T) {
		f := sizedFile{ingest.NewFile("big.jpg", "image/jpeg", nil), 6 << 20}
		err := ingest.Validate(f, 5<<20)
		require.Error(t, err)
		assert.ErrorIs(t, err, ingest.ErrTooLarge)
		assert.Contains(t, err.Error(), "exceeds 5MB")
	})

	t.Run("ExactlyAtLimit", func(t *testing.T) {
		f := sizedFile{ingest.NewFile("ok.jpg", "image/jpeg", nil), 2 << 20}
		assert.NoError(t, ingest.Validate(f, 2<<20))
	})

	t.Run("SniffsMissingType", func(t *testing.T) {
		f := ingest.NewFile("noext", "", pngBytes(t, 4, 4))
		assert.NoError(t, ingest.Validate(f, 5<<20))

		f = ingest.NewFile("noext", "", []byte("plain text body"))
		assert.ErrorIs(t, ingest.Validate(f, 5<<20), ingest.ErrInvalidType)
	})
}

func TestCompress(t *testing.T) {
	t.Run("ScalesDownWideImage", func(t *testing.T) {
		f := ingest.NewFile("wide.png", "image/png", pngBytes(t, 1600, 1000))
		ref, err := ingest.Compress(f, ingest.Options{MaxWidth: 800, Quality: 0.7})
		require.NoError(t, err)

		cfg := decodeDataURI(t, ref)
		assert.Equal(t, 800, cfg.Width)
		assert.Equal(t, 500, cfg.Height)
	})

	t.Run("RoundsHeight", func(t *testing.T) {
		f := ingest.NewFile("odd.png", "image/png", pngBytes(t, 301, 199))
		ref, err := ingest.Compress(f, ingest.Options{MaxWidth: 150, Quality: 0.8})
		require.NoError(t, err)

		cfg := decodeDataURI(t, ref)
		assert.Equal(t, 150, cfg.Width)
		assert.InDelta(t, 199.0*150.0/301.0, float64(cfg.Height), 1)
	})

	t.Run("KeepsNarrowImage", func(t *testing.T) {
		f := ingest.NewFile("small.png", "image/png", pngBytes(t, 400, 300))
		ref, err := ingest.Compress(f, ingest.Options{MaxWidth: 800, Quality: 0.7})
		require.NoError(t, err)

		cfg := decodeDataURI(t, ref)
		assert.Equal(t, 400, cfg.Width)
		assert.Equal(t, 300, cfg.Height)
	})

	t.Run("CorruptData", func(t *testing.T) {
		f := ingest.NewFile("bad.png", "image/png", []byte("not an image"))
		_, err := ingest.Compress(f, ingest.Options{MaxWidth: 800, Quality: 0.7})
		assert.Error(t, err)
	})
}

func TestAssembleImages(t *testing.T) {
	p := ingest.NewPipeline(ingest.ProductPhotos)

	t.Run("KeepsExistingThenAppends", func(t *testing.T) {
		valid := ingest.NewFile("new.png", "image/png", pngBytes(t, 10, 10))

		got, err := p.AssembleImages(
			t.Context(), []string{"A", "B", "C"}, []int{1},
			[]ingest.File{valid},
		)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "A", got[0])
		assert.Equal(t, "C", got[1])
		assert.True(t, strings.HasPrefix(got[2], "data:image/jpeg;base64,"))
	})

	t.Run("OversizedFileBecomesPlaceholder", func(t *testing.T) {
		big := sizedFile{ingest.NewFile("big.jpg", "image/jpeg", nil), 6 << 20}

		got, err := p.AssembleImages(t.Context(), nil, nil, []ingest.File{big})
		require.NoError(t, err)
		assert.Equal(t, []string{ingest.InvalidImagePlaceholder}, got)
	})

	t.Run("CountIsConserved", func(t *testing.T) {
		files := []ingest.File{
			ingest.NewFile("ok.png", "image/png", pngBytes(t, 20, 10)),
			ingest.NewFile("doc.pdf", "application/pdf", []byte("%PDF")),
			ingest.NewFile("bad.png", "image/png", []byte("garbage")),
			brokenFile{},
			ingest.NewFile("ok2.png", "image/png", pngBytes(t, 10, 20)),
		}
		existing := []string{"e0", "e1", "e2", "e3"}
		deleted := []int{0, 2, 2, 9}

		got, err := p.AssembleImages(t.Context(), existing, deleted, files)
		require.NoError(t, err)
		require.Len(t, got, 2+len(files))

		assert.Equal(t, []string{"e1", "e3"}, got[:2])
		assert.True(t, strings.HasPrefix(got[2], "data:image/jpeg"))
		assert.Equal(t, ingest.InvalidImagePlaceholder, got[3])
		assert.Equal(t, ingest.ErrorPlaceholder(5), got[4])
		assert.Equal(t, ingest.ErrorPlaceholder(6), got[5])
		assert.True(t, strings.HasPrefix(got[6], "data:image/jpeg"))
	})

	t.Run("CreatePath", func(t *testing.T) {
		files := []ingest.File{
			ingest.NewFile("bad.png", "image/png", []byte("garbage")),
		}
		got, err := p.AssembleImages(t.Context(), nil, nil, files)
		require.NoError(t, err)
		assert.Equal(t, []string{ingest.ErrorPlaceholder(1)}, got)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		files := []ingest.File{ingest.NewFile("a.png", "image/png", nil)}
		_, err := p.AssembleImages(ctx, nil, nil, files)
		assert.ErrorIs(t, err, context.Canceled)

		got, err := p.AssembleImages(ctx, []string{"A"}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, got)
	})
}

func TestIcon(t *testing.T) {
	p := ingest.NewPipeline(ingest.CategoryIcons)

	t.Run("NoFileKeepsCurrent", func(t *testing.T) {
		got, err := p.Icon(t.Context(), "current", nil, "Sarees")
		require.NoError(t, err)
		assert.Equal(t, "current", got)
	})

	t.Run("InvalidFilePlaceholder", func(t *testing.T) {
		f := sizedFile{ingest.NewFile("icon.png", "image/png", nil), 3 << 20}
		got, err := p.Icon(t.Context(), "", f, "Party Wear")
		require.NoError(t, err)
		assert.Equal(t, "https://via.placeholder.com/150x150?text=Party%20Wear", got)
	})

	t.Run("CompressedToIconWidth", func(t *testing.T) {
		f := ingest.NewFile("icon.png", "image/png", pngBytes(t, 300, 300))
		got, err := p.Icon(t.Context(), "", f, "Tops")
		require.NoError(t, err)

		cfg := decodeDataURI(t, got)
		assert.Equal(t, 150, cfg.Width)
		assert.Equal(t, 150, cfg.Height)
	})
}
