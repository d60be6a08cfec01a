package ingest

import (
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const megabyte = 1024 * 1024

var (
	ErrInvalidType = errors.New("invalid file type")
	ErrTooLarge    = errors.New("file too large")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// A RejectError carries the message shown to the person who picked the file.
type RejectError struct {
	Err     error
	Message string
}

func (e RejectError) Error() string { return e.Message }
func (e RejectError) Unwrap() error { return e.Err }

// Validate checks the type and size of f against maxBytes.
//
// The declared content type is used when present, otherwise the leading
// bytes are sniffed.
func Validate(f File, maxBytes int64) error {
	ct, err := contentType(f)
	if err != nil {
		return err
	}

	if !allowedTypes[ct] {
		return RejectError{
			Err:     ErrInvalidType,
			Message: "Invalid file type. Please upload JPEG, PNG, GIF, or WebP images.",
		}
	}

	if f.Size() > maxBytes {
		return RejectError{
			Err:     ErrTooLarge,
			Message: fmt.Sprintf("File size exceeds %sMB limit.", formatMB(maxBytes)),
		}
	}
	return nil
}

func contentType(f File) (string, error) {
	if declared := f.ContentType(); declared != "" {
		mt, _, err := mime.ParseMediaType(declared)
		if err != nil {
			return strings.ToLower(strings.TrimSpace(declared)), nil
		}
		return mt, nil
	}

	r, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %q: %w", f.Name(), err)
	}
	defer r.Close()

	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("detect %q: %w", f.Name(), err)
	}
	ct, _, _ := strings.Cut(mt.String(), ";")
	return ct, nil
}

func formatMB(n int64) string {
	return strconv.FormatFloat(float64(n)/megabyte, 'f', -1, 64)
}
