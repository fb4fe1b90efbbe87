package odk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// slowListServer delays responses so concurrent cold-cache fetches are all
// in flight before any of them can populate the cache.
func slowListServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(100 * time.Millisecond)
		_ = json.NewEncoder(w).Encode([]Project{{ID: 1, Name: "Survey"}})
	}))
}

func fetchConcurrently(c *Client, n int) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.FetchProjects(context.Background())
		}()
	}
	wg.Wait()
}

func TestConcurrentMisses_DuplicateByDefault(t *testing.T) {
	var calls atomic.Int64
	srv := slowListServer(t, &calls)
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	fetchConcurrently(c, 5)

	// Base contract: overlapping misses each issue their own request and
	// last-write-wins the cache.
	if calls.Load() != 5 {
		t.Fatalf("expected 5 duplicate requests, got %d", calls.Load())
	}
}

func TestConcurrentMisses_SingleFlightCollapses(t *testing.T) {
	var calls atomic.Int64
	srv := slowListServer(t, &calls)
	defer srv.Close()

	c := New(srv.URL, WithSingleFlight())
	c.SetToken("tok")

	fetchConcurrently(c, 5)

	if calls.Load() != 1 {
		t.Fatalf("expected one shared request, got %d", calls.Load())
	}

	// Follow-up reads come from cache either way.
	c.FetchProjects(context.Background())
	if calls.Load() != 1 {
		t.Fatalf("cache not populated by shared flight: %d calls", calls.Load())
	}
}
