package odk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// listServer counts project list requests so cache behavior is observable.
func listServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode([]Project{{ID: 1, Name: "Survey"}})
	}))
}

func TestFetchProjects_CacheHitWithinTTL(t *testing.T) {
	var calls atomic.Int64
	srv := listServer(t, &calls)
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	first := c.FetchProjects(context.Background())
	second := c.FetchProjects(context.Background())

	if calls.Load() != 1 {
		t.Fatalf("expected 1 network call, got %d", calls.Load())
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("unexpected results: first=%v second=%v", first, second)
	}
	// Same cached slice, not a re-decoded copy.
	if &first[0] != &second[0] {
		t.Fatal("second fetch did not return the cached slice")
	}
}

func TestFetchProjects_RefetchAfterExpiry(t *testing.T) {
	var calls atomic.Int64
	srv := listServer(t, &calls)
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	base := time.Now()
	c.now = func() time.Time { return base }
	c.FetchProjects(context.Background())

	// One second short of the TTL: still a hit.
	c.now = func() time.Time { return base.Add(defaultCacheTTL - time.Second) }
	c.FetchProjects(context.Background())
	if calls.Load() != 1 {
		t.Fatalf("expected hit before expiry, got %d calls", calls.Load())
	}

	// At the expiry instant the entry is stale.
	c.now = func() time.Time { return base.Add(defaultCacheTTL) }
	c.FetchProjects(context.Background())
	if calls.Load() != 2 {
		t.Fatalf("expected exactly one refetch after expiry, got %d calls", calls.Load())
	}
}

func TestFetchForms_CachedPerProject(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode([]Form{{XMLFormID: "f1", Name: "Form One"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	c.FetchForms(context.Background(), "1")
	c.FetchForms(context.Background(), "1")
	c.FetchForms(context.Background(), "2")

	if calls.Load() != 2 {
		t.Fatalf("expected one call per project, got %d", calls.Load())
	}
}

func TestFetchProjects_NoTokenNoCredentials(t *testing.T) {
	var calls atomic.Int64
	srv := listServer(t, &calls)
	defer srv.Close()

	c := New(srv.URL)
	if got := c.FetchProjects(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty result without auth, got %v", got)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no network call without auth, got %d", calls.Load())
	}
}

func TestWithCacheTTL_Override(t *testing.T) {
	var calls atomic.Int64
	srv := listServer(t, &calls)
	defer srv.Close()

	c := New(srv.URL, WithCacheTTL(10*time.Millisecond))
	c.SetToken("tok")

	base := time.Now()
	c.now = func() time.Time { return base }
	c.FetchProjects(context.Background())

	c.now = func() time.Time { return base.Add(11 * time.Millisecond) }
	c.FetchProjects(context.Background())
	if calls.Load() != 2 {
		t.Fatalf("expected refetch under shortened TTL, got %d calls", calls.Load())
	}
}
