// Package uploads persists customer profile images and derives their stored
// filenames.
package uploads

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Store writes binary content under a generated filename and returns the
// public relative path to record on the owning entity.
type Store interface {
	Save(ctx context.Context, filename string, content io.Reader, size int64, contentType string) (string, error)
}

// DirStore writes uploads into a single flat directory on local disk.
type DirStore struct {
	dir          string
	publicPrefix string
}

func NewDirStore(dir, publicPrefix string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create uploads dir")
	}
	return &DirStore{dir: dir, publicPrefix: strings.Trim(publicPrefix, "/")}, nil
}

// Dir returns the directory files are written to.
func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) Save(_ context.Context, filename string, content io.Reader, _ int64, _ string) (string, error) {
	if strings.ContainsAny(filename, `/\`) || filename == "" {
		return "", errors.Errorf("invalid upload filename %q", filename)
	}
	target := filepath.Join(s.dir, filename)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "open upload target")
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(target)
		return "", errors.Wrap(err, "write upload")
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", errors.Wrap(err, "close upload")
	}
	return path.Join("/", s.publicPrefix, filename), nil
}
