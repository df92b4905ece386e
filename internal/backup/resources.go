package backup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mindstitch/internal/filex"
)

var ErrUnsupportedResource = errors.New("unsupported resource locator")

// ResourceReader loads the bytes behind an image locator.
type ResourceReader interface {
	Read(ctx context.Context, uri string) ([]byte, error)
}

// FileResources reads file:// URIs and plain paths. Relative paths are
// resolved against BaseDir.
type FileResources struct {
	BaseDir string
}

func (f FileResources) Path(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		u, err := url.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedResource, err)
		}
		return filepath.FromSlash(u.Path), nil
	}
	if uri == "" || strings.Contains(uri, "://") {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedResource, uri)
	}
	if filepath.IsAbs(uri) {
		return uri, nil
	}
	return filepath.Join(f.BaseDir, uri), nil
}

func (f FileResources) Read(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := f.Path(uri)
	if err != nil {
		return nil, err
	}
	return filex.ReadRegular(p)
}

// FileURI returns the file:// form of an absolute path.
func FileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
