package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wdtaxa/pkg/errors"
)

func TestGetSetsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(WithUserAgent("wdtaxa-test/1.0"))
	resp, err := c.Get(context.Background(), srv.URL, "application/sparql-results+xml")
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, "wdtaxa-test/1.0", gotUA)
	assert.Equal(t, "application/sparql-results+xml", gotAccept)
}

func TestGetReportsNonOKWithoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := New().Get(context.Background(), srv.URL, "")
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	err = Check(resp, "gbif")
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestCacheStoresOnlyOKResponses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"n":1}`))
	}))
	defer srv.Close()

	c := New(WithCache(NewCache(time.Minute, time.Minute)))
	ctx := context.Background()

	for range 3 {
		_, err := c.Get(ctx, srv.URL+"/ok", "application/json")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())

	for range 2 {
		resp, err := c.Get(ctx, srv.URL+"/fail", "application/json")
		require.NoError(t, err)
		assert.True(t, errors.IsRateLimited(Check(resp, "ipni")))
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		N int `json:"n"`
	}
	require.NoError(t, DecodeJSON(&Response{OK: true, StatusCode: 200, Body: []byte(`{"n":4}`)}, "ipni", &out))
	assert.Equal(t, 4, out.N)

	err := DecodeJSON(&Response{OK: true, StatusCode: 200, Body: []byte(`{`)}, "ipni", &out)
	var pe *errors.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := New(WithRateLimit(0.001))
	_, err := c.Get(context.Background(), srv.URL, "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, srv.URL, "")
	assert.Error(t, err)
}

func TestCheckTruncatesOnRuneBoundary(t *testing.T) {
	// 199 ASCII bytes followed by a 2-byte rune straddling the limit.
	body := strings.Repeat("a", 199) + "é" + strings.Repeat("b", 50)
	err := Check(&Response{StatusCode: 502, Body: []byte(body)}, "gbif")

	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, utf8.ValidString(apiErr.Message))
	assert.Equal(t, strings.Repeat("a", 199), apiErr.Message)
	assert.True(t, errors.IsSourceUnavailable(err))

	short := Check(&Response{StatusCode: 500, Body: []byte("Zürich down")}, "ipni")
	require.True(t, errors.As(short, &apiErr))
	assert.Equal(t, "Zürich down", apiErr.Message)
}
