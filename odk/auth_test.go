package odk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func authServer(t *testing.T, password string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "session-token"})
	})
	mux.HandleFunc("/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer session-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]Project{{ID: 1, Name: "Survey"}})
	})
	return httptest.NewServer(mux)
}

func TestAuthenticate_Success(t *testing.T) {
	srv := authServer(t, "correct")
	defer srv.Close()

	c := New(srv.URL)
	c.SetCredentials("user@example.org", "correct")
	if !c.Authenticate(context.Background()) {
		t.Fatal("expected authentication to succeed")
	}
	if c.currentToken() != "session-token" {
		t.Fatalf("token not stored: %q", c.currentToken())
	}
}

func TestAuthenticate_BadCredentialsClearsToken(t *testing.T) {
	srv := authServer(t, "correct")
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("stale")
	c.SetCredentials("user@example.org", "wrong")
	if c.Authenticate(context.Background()) {
		t.Fatal("expected authentication to fail")
	}
	if c.currentToken() != "" {
		t.Fatalf("stale token survived failed auth: %q", c.currentToken())
	}
}

func TestAuthenticate_MissingCredentials(t *testing.T) {
	c := New("http://127.0.0.1:0")
	if c.Authenticate(context.Background()) {
		t.Fatal("expected failure without credentials")
	}
}

func TestFetchProjects_LazyAuthentication(t *testing.T) {
	srv := authServer(t, "correct")
	defer srv.Close()

	c := New(srv.URL)
	c.SetCredentials("user@example.org", "correct")
	// No explicit Authenticate call; the fetch must obtain a token itself.
	if got := c.FetchProjects(context.Background()); len(got) != 1 {
		t.Fatalf("expected lazy auth to yield projects, got %v", got)
	}
}

func TestClearCredentials_PurgesEverything(t *testing.T) {
	srv := authServer(t, "correct")
	defer srv.Close()

	c := New(srv.URL)
	c.SetCredentials("user@example.org", "correct")
	if got := c.FetchProjects(context.Background()); len(got) != 1 {
		t.Fatalf("seed fetch failed: %v", got)
	}

	c.ClearCredentials()

	c.mu.Lock()
	cached := len(c.projectsCache) + len(c.formsCache) + len(c.submissionsCache)
	c.mu.Unlock()
	if cached != 0 {
		t.Fatalf("caches not emptied: %d entries", cached)
	}
	if c.Authenticate(context.Background()) {
		t.Fatal("expected authentication to fail after credential clear")
	}
	if got := c.FetchProjects(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty fetch after credential clear, got %v", got)
	}
}

// Exercises fetches racing credential clears; run under -race this fails if
// ClearCredentials ever swaps the cache maps instead of emptying them.
func TestClearCredentials_ConcurrentWithFetch(t *testing.T) {
	srv := authServer(t, "correct")
	defer srv.Close()

	c := New(srv.URL)
	c.SetCredentials("user@example.org", "correct")

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				_ = c.FetchProjects(context.Background())
			}
		}
	}()

	for i := 0; i < 50; i++ {
		c.ClearCredentials()
		c.SetCredentials("user@example.org", "correct")
	}
	close(done)
	wg.Wait()
}
