package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chatsitehttp "github.com/larsmarsfars/chatsite/http"
	"github.com/stretchr/testify/assert"
)

func TestFetcher_Fetch_success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chatsite-ingest/1.0", r.Header.Get("User-Agent"))
		fmt.Fprint(w, "<html><body>hello</body></html>")
	}))
	t.Cleanup(srv.Close)

	f := chatsitehttp.NewFetcher()
	res := f.Fetch(context.Background(), srv.URL)

	assert.True(t, res.OK)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, srv.URL, res.URL)
	assert.Contains(t, res.Body, "hello")
	assert.Empty(t, res.Err)
}

func TestFetcher_Fetch_non2xx_keeps_status(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "gone")
	}))
	t.Cleanup(srv.Close)

	f := chatsitehttp.NewFetcher()
	res := f.Fetch(context.Background(), srv.URL)

	assert.False(t, res.OK)
	assert.Equal(t, 404, res.Status)
	assert.Equal(t, "gone", res.Body)
}

func TestFetcher_Fetch_timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	f := chatsitehttp.NewFetcher(chatsitehttp.WithFetchTimeout(50 * time.Millisecond))
	res := f.Fetch(context.Background(), srv.URL)

	assert.False(t, res.OK)
	assert.Equal(t, 0, res.Status)
	assert.NotEmpty(t, res.Err)
}

func TestFetcher_Fetch_bad_url(t *testing.T) {
	t.Parallel()

	f := chatsitehttp.NewFetcher()
	res := f.Fetch(context.Background(), "http://\x00invalid")

	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Err)
}
