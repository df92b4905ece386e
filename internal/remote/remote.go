// Package remote defines the contract of a backup target: a folder tree
// addressed by paths relative to a base URL, reached with per-call
// credentials.
//
// Only Upload reports errors. The other operations collapse network-shaped
// failures into false or "absent" results so callers can treat an
// unreachable server like an empty one.
package remote

import (
	"context"
	"errors"
	"strings"
)

const (
	ContentTypeJSON   = "application/json; charset=utf-8"
	ContentTypeBinary = "application/octet-stream"
)

// SchemeS3 marks endpoints served by an S3-compatible bucket.
const SchemeS3 = "s3://"

var ErrUnsupportedScheme = errors.New("no store configured for endpoint scheme")

// Endpoint is where and as whom to connect. It is passed on every call;
// stores keep no per-endpoint state.
type Endpoint struct {
	URL      string
	Username string
	Password string
}

// IsS3 reports whether the endpoint addresses an S3 bucket.
func (e Endpoint) IsS3() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(e.URL)), SchemeS3)
}

// Store is a remote folder tree.
type Store interface {
	// CheckConnection reports whether the base location is reachable with
	// the given credentials.
	CheckConnection(ctx context.Context, ep Endpoint) bool

	// CreateFolder creates name under the base location. An existing folder
	// counts as success.
	CreateFolder(ctx context.Context, ep Endpoint, name string) bool

	// Upload stores data at path. An empty contentType means binary.
	Upload(ctx context.Context, ep Endpoint, path string, data []byte, contentType string) error

	// Download returns the content at path, or false when it cannot be
	// fetched for any reason.
	Download(ctx context.Context, ep Endpoint, path string) ([]byte, bool)
}

// UploadText stores a UTF-8 JSON document at path.
func UploadText(ctx context.Context, s Store, ep Endpoint, path, text string) error {
	return s.Upload(ctx, ep, path, []byte(text), ContentTypeJSON)
}
