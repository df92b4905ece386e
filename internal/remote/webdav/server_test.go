package webdav

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/mindstitch/internal/logging"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_WithClient(t *testing.T) {
	root := t.TempDir()
	srv := httptest.NewServer(NewHandler(root, "alice", "s3cret", logging.NewNop()))
	defer srv.Close()

	c := newTestClient()
	ctx := context.Background()
	ep := remote.Endpoint{URL: srv.URL, Username: "alice", Password: "s3cret"}

	require.True(t, c.CheckConnection(ctx, ep))
	require.True(t, c.CreateFolder(ctx, ep, "MindStitch"))
	require.True(t, c.CreateFolder(ctx, ep, "MindStitch"), "existing folder is fine")
	require.True(t, c.CreateFolder(ctx, ep, "MindStitch/images"))

	require.NoError(t, c.Upload(ctx, ep, "MindStitch/images/img_1_a.jpg", []byte{0xff, 0xd8}, "image/jpeg"))

	onDisk, err := os.ReadFile(filepath.Join(root, "MindStitch", "images", "img_1_a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, onDisk)

	b, ok := c.Download(ctx, ep, "MindStitch/images/img_1_a.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte{0xff, 0xd8}, b)

	_, ok = c.Download(ctx, ep, "MindStitch/missing.json")
	assert.False(t, ok)
}

func TestHandler_RejectsBadCredentials(t *testing.T) {
	srv := httptest.NewServer(NewHandler(t.TempDir(), "alice", "s3cret", logging.NewNop()))
	defer srv.Close()

	c := newTestClient()
	ctx := context.Background()
	bad := remote.Endpoint{URL: srv.URL, Username: "alice", Password: "wrong"}

	assert.False(t, c.CheckConnection(ctx, bad))
	assert.False(t, c.CreateFolder(ctx, bad, "MindStitch"))
	assert.Error(t, c.Upload(ctx, bad, "x.json", []byte("{}"), remote.ContentTypeJSON))

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("WWW-Authenticate"))
}

func TestHandler_NoAuthWhenUserEmpty(t *testing.T) {
	srv := httptest.NewServer(NewHandler(t.TempDir(), "", "", logging.NewNop()))
	defer srv.Close()

	assert.True(t, newTestClient().CheckConnection(context.Background(), remote.Endpoint{URL: srv.URL}))
}
