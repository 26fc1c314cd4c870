package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	"tmdb-scraper/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func TestFetcherSendsScrapingHeaders(t *testing.T) {
	var received http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Clone()
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(0, telemetry.NewTestAPI())
	body, err := fetcher.Fetch(context.Background(), server.URL+"/movie", time.Second)
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(body))

	require.Equal(t, scrapingHeaders["User-Agent"], received.Get("User-Agent"))
	require.Equal(t, "max-age=0", received.Get("Cache-Control"))
	require.Equal(t, "keep-alive", received.Get("Connection"))
}

func TestFetcherTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(0, telemetry.NewTestAPI())
	_, err := fetcher.Fetch(context.Background(), server.URL+"/movie", 100*time.Millisecond)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Zero(t, fetchErr.StatusCode)
	require.Equal(t, server.URL+"/movie", fetchErr.URL)
}

func TestFetcherSpacesRequests(t *testing.T) {
	var mutex sync.Mutex
	var arrivals []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutex.Lock()
		arrivals = append(arrivals, time.Now())
		mutex.Unlock()
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	delay := 250 * time.Millisecond
	fetcher := NewFetcher(delay, telemetry.NewTestAPI())
	for i := 0; i < 3; i++ {
		_, err := fetcher.Fetch(context.Background(), server.URL+"/movie", time.Second)
		require.NoError(t, err)
	}

	require.Len(t, arrivals, 3)
	// limiter ticks are not exact, allow a little slack
	for i := 1; i < len(arrivals); i++ {
		gap := arrivals[i].Sub(arrivals[i-1])
		require.GreaterOrEqual(t, gap, delay-50*time.Millisecond, "gap %d was %s", i, gap)
	}
}
