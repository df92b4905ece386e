// Package webdav implements remote.Store over plain WebDAV (PROPFIND, MKCOL,
// PUT, GET with HTTP Basic Auth) and provides a small WebDAV server for
// self-hosted backups.
package webdav

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/mindstitch/internal/logging"
	"github.com/dmitrijs2005/mindstitch/internal/netx"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
)

const (
	MethodPropfind = "PROPFIND"
	MethodMkcol    = "MKCOL"
)

// Client is a stateless WebDAV client; endpoint and credentials come with
// every call.
type Client struct {
	http   *http.Client
	logger logging.Logger
}

var _ remote.Store = (*Client)(nil)

// NewClient returns a client whose requests are bounded by t.
func NewClient(t netx.Timeouts, logger logging.Logger) *Client {
	return NewClientWithHTTP(netx.NewHTTPClient(t), logger)
}

// NewClientWithHTTP uses the given HTTP client as is.
func NewClientWithHTTP(c *http.Client, logger logging.Logger) *Client {
	return &Client{http: c, logger: logger}
}

// baseURL makes sure the base ends with a slash so relative names append
// cleanly.
func baseURL(ep remote.Endpoint) string {
	u := strings.TrimSpace(ep.URL)
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// resolve appends name to the base, escaping each path segment.
func resolve(ep remote.Endpoint, name string) string {
	segs := strings.Split(strings.TrimLeft(name, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return baseURL(ep) + strings.Join(segs, "/")
}

func (c *Client) do(ctx context.Context, ep remote.Endpoint, method, target string, body []byte, header http.Header) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.SetBasicAuth(ep.Username, ep.Password)

	return c.http.Do(req)
}

func (c *Client) CheckConnection(ctx context.Context, ep remote.Endpoint) bool {
	target := baseURL(ep)
	resp, err := c.do(ctx, ep, MethodPropfind, target, nil, http.Header{"Depth": {"0"}})
	if err != nil {
		c.logger.Debug(ctx, "propfind failed", "url", target, "error", err)
		return false
	}
	defer netx.Drain(resp.Body)

	ok := netx.IsSuccess(resp.StatusCode) || resp.StatusCode == http.StatusMultiStatus
	if !ok {
		c.logger.Debug(ctx, "propfind rejected", "url", target, "status", resp.StatusCode)
	}
	return ok
}

func (c *Client) CreateFolder(ctx context.Context, ep remote.Endpoint, name string) bool {
	target := resolve(ep, name)
	resp, err := c.do(ctx, ep, MethodMkcol, target, nil, nil)
	if err != nil {
		c.logger.Debug(ctx, "mkcol failed", "url", target, "error", err)
		return false
	}
	defer netx.Drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusCreated,
		resp.StatusCode == http.StatusMethodNotAllowed,
		netx.IsSuccess(resp.StatusCode):
		return true
	}
	c.logger.Debug(ctx, "mkcol rejected", "url", target, "status", resp.StatusCode)
	return false
}

func (c *Client) Upload(ctx context.Context, ep remote.Endpoint, path string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = remote.ContentTypeBinary
	}
	if data == nil {
		data = []byte{}
	}

	target := resolve(ep, path)
	resp, err := c.do(ctx, ep, http.MethodPut, target, data, http.Header{"Content-Type": {contentType}})
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	defer netx.Drain(resp.Body)

	switch {
	case netx.IsSuccess(resp.StatusCode),
		resp.StatusCode == http.StatusCreated,
		resp.StatusCode == http.StatusNoContent:
		return nil
	}
	return fmt.Errorf("upload %s: %w", path, netx.NewStatusError(resp))
}

func (c *Client) Download(ctx context.Context, ep remote.Endpoint, path string) ([]byte, bool) {
	target := resolve(ep, path)
	resp, err := c.do(ctx, ep, http.MethodGet, target, nil, nil)
	if err != nil {
		c.logger.Debug(ctx, "get failed", "url", target, "error", err)
		return nil, false
	}
	defer netx.Drain(resp.Body)

	if !netx.IsSuccess(resp.StatusCode) {
		c.logger.Debug(ctx, "get rejected", "url", target, "status", resp.StatusCode)
		return nil, false
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug(ctx, "get body failed", "url", target, "error", err)
		return nil, false
	}
	return b, true
}
