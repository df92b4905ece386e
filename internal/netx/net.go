// Package netx builds HTTP clients with per-phase time bounds.
package netx

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Timeouts bounds the phases of a single HTTP exchange.
type Timeouts struct {
	Connect time.Duration
	Write   time.Duration
	Read    time.Duration
}

// DefaultTimeouts is 30 seconds per phase.
var DefaultTimeouts = Timeouts{Connect: 30 * time.Second, Write: 30 * time.Second, Read: 30 * time.Second}

// NewHTTPClient returns a client where dialing and the TLS handshake are
// bounded by Connect, waiting for response headers by Write+Read, and the
// whole exchange by the sum of all three.
func NewHTTPClient(t Timeouts) *http.Client {
	dialer := &net.Dialer{Timeout: t.Connect, KeepAlive: 30 * time.Second}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   t.Connect,
		ResponseHeaderTimeout: t.Write + t.Read,
		ExpectContinueTimeout: time.Second,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   t.Connect + t.Write + t.Read,
	}
}

// maxErrorBody caps how much of an error response is quoted back.
const maxErrorBody = 4 << 10

// StatusError describes a non-success HTTP response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed: %d %s; body: %s",
		e.Method, e.URL, e.Code, http.StatusText(e.Code), e.Body)
}

// NewStatusError reads up to 4 KiB of resp.Body into a StatusError.
func NewStatusError(resp *http.Response) *StatusError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		e.URL = resp.Request.URL.Redacted()
	}
	return e
}

// Drain discards the rest of body and closes it so the connection can be
// reused.
func Drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

// IsSuccess reports whether code is 2xx.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
