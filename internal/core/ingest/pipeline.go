// Package ingest turns user-selected image files into the ordered list of
// embedded image references persisted with a product or category.
//
// A problem with a single file never fails a batch: the file's slot is
// filled with a placeholder reference instead.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/misslily/pkg/weburl"
)

const (
	InvalidImagePlaceholder = "https://via.placeholder.com/300x300?text=Invalid+Image"
	errorPlaceholderFormat  = "https://via.placeholder.com/300x300?text=Error+%d"
	iconPlaceholderPrefix   = "https://via.placeholder.com/150x150?text="
)

// ErrorPlaceholder is the reference used when the file at the 1-based slot
// could not be decoded or compressed.
func ErrorPlaceholder(slot int) string {
	return fmt.Sprintf(errorPlaceholderFormat, slot)
}

func IconPlaceholder(categoryName string) string {
	return iconPlaceholderPrefix + weburl.EscapeComponent(categoryName)
}

type Profile struct {
	MaxBytes int64
	MaxWidth int
	Quality  float64
}

var (
	ProductPhotos = Profile{MaxBytes: 5 * megabyte, MaxWidth: 800, Quality: 0.7}
	CategoryIcons = Profile{MaxBytes: 2 * megabyte, MaxWidth: 150, Quality: 0.8}
)

type Pipeline struct {
	profile Profile
}

func NewPipeline(p Profile) Pipeline {
	return Pipeline{p}
}

func (p Pipeline) Profile() Profile {
	return p.profile
}

// AssembleImages returns the kept existing references followed by one
// reference per file, in that order.
//
// Indices in deleted refer to existing and are dropped before new files are
// appended. Files are processed one at a time. The only error is the
// cancellation of ctx.
func (p Pipeline) AssembleImages(
	ctx context.Context, existing []string, deleted []int, files []File,
) ([]string, error) {
	const op = "Pipeline.AssembleImages"
	log := slog.With("op", op)

	drop := make(map[int]struct{}, len(deleted))
	for _, i := range deleted {
		drop[i] = struct{}{}
	}

	out := make([]string, 0, len(existing)+len(files))
	for i, ref := range existing {
		if _, ok := drop[i]; ok {
			continue
		}
		out = append(out, ref)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		slot := len(out) + 1

		if err := Validate(f, p.profile.MaxBytes); err != nil {
			log.Warn("invalid image", "file", f.Name(), "err", err)
			out = append(out, InvalidImagePlaceholder)
			continue
		}

		ref, err := Compress(f, p.options())
		if err != nil {
			log.Error("failed to process image", "file", f.Name(), "err", err)
			out = append(out, ErrorPlaceholder(slot))
			continue
		}
		out = append(out, ref)
	}

	log.Debug("images assembled",
		"kept", len(out)-len(files), "processed", len(files))
	return out, nil
}

// Icon returns the reference for a category icon.
//
// Without a file the current reference is kept.
func (p Pipeline) Icon(
	ctx context.Context, current string, f File, categoryName string,
) (string, error) {
	const op = "Pipeline.Icon"
	log := slog.With("op", op)

	if f == nil {
		return current, nil
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := Validate(f, p.profile.MaxBytes); err != nil {
		log.Warn("invalid icon", "file", f.Name(), "err", err)
		return IconPlaceholder(categoryName), nil
	}

	ref, err := Compress(f, p.options())
	if err != nil {
		log.Error("failed to process icon", "file", f.Name(), "err", err)
		return IconPlaceholder(categoryName), nil
	}
	return ref, nil
}

func (p Pipeline) options() Options {
	return Options{MaxWidth: p.profile.MaxWidth, Quality: p.profile.Quality}
}
