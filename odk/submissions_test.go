package odk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func submissionsServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		_, _ = io.WriteString(w, fmt.Sprintf("instanceID,age\nuuid:%d,30\n", n))
	}))
}

func TestFetchSubmissions_DecodesCSV(t *testing.T) {
	var calls atomic.Int64
	srv := submissionsServer(t, &calls)
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	table := c.FetchSubmissions(context.Background(), "1", "census", false)
	if table.IsError() {
		t.Fatalf("unexpected error table: %s", table.ErrorMessage())
	}
	if len(table.Columns) != 2 || table.Columns[0] != "instanceID" {
		t.Fatalf("unexpected columns: %v", table.Columns)
	}
	if len(table.Rows) != 1 || table.Rows[0][1] != "30" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestFetchSubmissions_CacheAndForceRefresh(t *testing.T) {
	var calls atomic.Int64
	srv := submissionsServer(t, &calls)
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	first := c.FetchSubmissions(context.Background(), "1", "census", false)
	cached := c.FetchSubmissions(context.Background(), "1", "census", false)
	if calls.Load() != 1 {
		t.Fatalf("expected cached second fetch, got %d calls", calls.Load())
	}
	if first != cached {
		t.Fatal("cached fetch returned a different table instance")
	}

	// Force refresh bypasses validity checking entirely and overwrites.
	refreshed := c.FetchSubmissions(context.Background(), "1", "census", true)
	if calls.Load() != 2 {
		t.Fatalf("force refresh did not hit the network: %d calls", calls.Load())
	}
	if refreshed == first {
		t.Fatal("force refresh returned stale table")
	}

	// The overwritten entry now serves subsequent reads.
	again := c.FetchSubmissions(context.Background(), "1", "census", false)
	if calls.Load() != 2 || again != refreshed {
		t.Fatalf("refreshed entry not cached: calls=%d", calls.Load())
	}
}

func TestFetchSubmissions_MissingIDs(t *testing.T) {
	var calls atomic.Int64
	srv := submissionsServer(t, &calls)
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	table := c.FetchSubmissions(context.Background(), "", "", false)
	if !table.Empty() {
		t.Fatalf("expected empty sentinel, got %+v", table)
	}
	if calls.Load() != 0 {
		t.Fatal("fetch issued despite missing identifiers")
	}
}

func TestFetchSubmissions_TimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPTimeout(30*time.Millisecond))
	c.SetToken("tok")

	table := c.FetchSubmissions(context.Background(), "1", "census", false)
	if !table.IsError() {
		t.Fatal("expected sentinel error table")
	}
	if table.ErrorMessage() != msgTimeout {
		t.Fatalf("wrong classification: %q", table.ErrorMessage())
	}
}

func TestFetchSubmissions_ConnectionFailureClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listens here anymore

	c := New(url)
	c.SetToken("tok")

	table := c.FetchSubmissions(context.Background(), "1", "census", false)
	if !table.IsError() {
		t.Fatal("expected sentinel error table")
	}
	if table.ErrorMessage() != msgConnection {
		t.Fatalf("wrong classification: %q", table.ErrorMessage())
	}
}

func TestFetchSubmissions_HTTPErrorClassifiedOther(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	table := c.FetchSubmissions(context.Background(), "1", "census", false)
	if !table.IsError() {
		t.Fatal("expected sentinel error table")
	}
	msg := table.ErrorMessage()
	if !strings.HasPrefix(msg, "Failed to fetch submissions:") {
		t.Fatalf("wrong classification: %q", msg)
	}
	if msg == msgTimeout || msg == msgConnection {
		t.Fatalf("generic failure mislabeled: %q", msg)
	}
}

func TestFetchSubmissions_ErrorNotCached(t *testing.T) {
	var calls atomic.Int64
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, "instanceID\nuuid:1\n")
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	if table := c.FetchSubmissions(context.Background(), "1", "census", false); !table.IsError() {
		t.Fatal("expected error table while server failing")
	}
	fail.Store(false)
	if table := c.FetchSubmissions(context.Background(), "1", "census", false); table.IsError() {
		t.Fatalf("error sentinel was cached: %s", table.ErrorMessage())
	}
	if calls.Load() != 2 {
		t.Fatalf("expected retry after failure, got %d calls", calls.Load())
	}
}
