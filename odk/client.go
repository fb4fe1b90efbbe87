// Package odk is a session-holding client for the ODK Central REST API.
//
// The client owns authentication state and three independent time-expiring
// caches, one per resource level of the projects -> forms -> submissions
// hierarchy. Expected failures (bad credentials, network trouble) never
// surface as returned errors: list fetches degrade to empty slices and
// submission fetches to sentinel error tables, so callers branch on values
// instead of wrapping every call in error plumbing.
package odk

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheTTL = 300 * time.Second

	sessionTimeout     = 10 * time.Second
	listTimeout        = 15 * time.Second
	submissionsTimeout = 60 * time.Second
)

// Client talks to one ODK Central server. A Client is safe for concurrent
// use; cache reads that hit a live entry never touch the network.
type Client struct {
	baseURL string
	http    *http.Client

	mu       sync.Mutex
	email    string
	password string
	token    string

	projectsCache    map[string]cacheEntry
	formsCache       map[string]cacheEntry
	submissionsCache map[string]cacheEntry

	cacheTTL time.Duration
	now      func() time.Time

	// set by WithSingleFlight; nil means concurrent misses each fetch.
	flight *singleflight.Group
}

// New constructs a Client for the given ODK Central base URL. A trailing
// slash on baseURL is dropped. Additional knobs are applied via options.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		http:             &http.Client{},
		projectsCache:    make(map[string]cacheEntry),
		formsCache:       make(map[string]cacheEntry),
		submissionsCache: make(map[string]cacheEntry),
		cacheTTL:         defaultCacheTTL,
		now:              time.Now,
	}

	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	return c
}

// BaseURL returns the server URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

func newFlightGroup() *singleflight.Group { return new(singleflight.Group) }

// do runs fn, deduplicating concurrent callers per cache key when the
// single-flight option is enabled.
func (c *Client) do(key string, fn func() (any, error)) (any, error) {
	if c.flight == nil {
		return fn()
	}
	v, err, _ := c.flight.Do(key, fn)
	return v, err
}
