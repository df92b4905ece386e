package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Bounds(t *testing.T) {
	c := NewHTTPClient(Timeouts{Connect: time.Second, Write: 2 * time.Second, Read: 3 * time.Second})

	assert.Equal(t, 6*time.Second, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, time.Second, tr.TLSHandshakeTimeout)
	assert.Equal(t, 5*time.Second, tr.ResponseHeaderTimeout)
}

func TestNewHTTPClient_SlowServerTimesOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	c := NewHTTPClient(Timeouts{Connect: 50 * time.Millisecond, Write: 50 * time.Millisecond, Read: 50 * time.Millisecond})

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Do(req)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("quota exceeded\n"))
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/x", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	se := NewStatusError(resp)
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Equal(t, "quota exceeded", se.Body)
	assert.Contains(t, se.Error(), "403")
	assert.Contains(t, se.Error(), "quota exceeded")
	assert.Contains(t, se.Error(), "PUT")
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(200))
	assert.True(t, IsSuccess(204))
	assert.True(t, IsSuccess(207))
	assert.False(t, IsSuccess(199))
	assert.False(t, IsSuccess(301))
	assert.False(t, IsSuccess(500))
}
