package tmdb

import (
	"net/http"
	"time"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeServer answers with a fixed body per request uri and 404 for
// everything else, it counts every request it receives.
type fakeServer struct {
	*httptest.Server

	mutex  sync.Mutex
	routes map[string]string
	hits   map[string]int
	// delays holds how long to stall before answering a request uri
	delays map[string]time.Duration
}

func newFakeServer(t *testing.T, routes map[string]string) *fakeServer {
	f := &fakeServer{
		routes: routes,
		hits:   map[string]int{},
		delays: map[string]time.Duration{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	key := r.URL.RequestURI()
	f.hits[key]++
	body, ok := f.routes[key]
	delay := f.delays[key]
	f.mutex.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Write([]byte(body))
}

func (f *fakeServer) Hits(uri string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.hits[uri]
}

func (f *fakeServer) Total() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	total := 0
	for _, n := range f.hits {
		total += n
	}
	return total
}

func (f *fakeServer) Stall(uri string, delay time.Duration) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.delays[uri] = delay
}
