package ingest

import (
	"bytes"
	"io"
)

// A File is a user-selected upload.
type File interface {
	Name() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type memFile struct {
	name        string
	contentType string
	data        []byte
}

// NewFile returns a [File] backed by data.
func NewFile(name, contentType string, data []byte) File {
	return memFile{name, contentType, data}
}

func (f memFile) Name() string        { return f.name }
func (f memFile) ContentType() string { return f.contentType }
func (f memFile) Size() int64         { return int64(len(f.data)) }

func (f memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
