package odk

// Functional options applied by New. Keeping them in one file makes the
// available knobs easy to discover at a glance.

import (
	"fmt"
	"time"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout.
//
// Every fetch already carries a per-endpoint context deadline; this is a
// coarse safety net bounding the total time of a single HTTP exchange.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithCacheTTL overrides the 300s lifetime applied to cache entries.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("cache ttl must be > 0")
		}
		c.cacheTTL = d
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true. Dumps include headers and bodies; do not
// enable outside development.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithSingleFlight collapses concurrent cache misses for the same key into
// one upstream request. Off by default: the base contract lets overlapping
// misses race and last-write-wins the cache.
func WithSingleFlight() Option {
	return func(c *Client) error {
		c.flight = newFlightGroup()
		return nil
	}
}
