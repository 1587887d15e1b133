package qr

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Resource is an optional, re-openable input such as an uploaded logo or font.
// Every Open must be paired with a Close; use Resource.ReadAll where the whole
// content is needed.
type Resource struct {
	Name string
	open func() (io.ReadCloser, error)
}

// FileResource reads from path on every Open.
func FileResource(path string) *Resource {
	return &Resource{
		Name: filepath.Base(path),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// BytesResource serves data from memory. data must not be modified afterwards.
func BytesResource(name string, data []byte) *Resource {
	return &Resource{
		Name: name,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Open acquires the resource.
func (r *Resource) Open() (io.ReadCloser, error) {
	if r == nil || r.open == nil {
		return nil, errors.Wrap(ErrAssetUnavailable, "no resource")
	}
	rc, err := r.open()
	if err != nil {
		return nil, errors.Wrapf(ErrAssetUnavailable, "open %s: %v", r.Name, err)
	}
	return rc, nil
}

// ReadAll opens, reads and releases the resource.
func (r *Resource) ReadAll() ([]byte, error) {
	rc, err := r.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(ErrAssetUnavailable, "read %s: %v", r.Name, err)
	}
	return b, nil
}

// fileExists reports whether path names a regular file.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
