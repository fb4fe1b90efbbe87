package odk

import (
	"fmt"
	"time"
)

// cacheEntry pairs a payload with its absolute expiry. Expiry is fixed at
// write time; reads never extend it.
type cacheEntry struct {
	value     any
	expiresAt time.Time
}

const projectsCacheKey = "projects"

func formsCacheKey(projectID string) string {
	return fmt.Sprintf("forms_%s", projectID)
}

func submissionsCacheKey(projectID, formID string) string {
	return fmt.Sprintf("submissions_%s_%s", projectID, formID)
}

// cacheGet returns the live entry for key, honoring the expiry stamp.
func (c *Client) cacheGet(m map[string]cacheEntry, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := m[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// cachePut stores value under key with a fresh expiry of now + TTL.
func (c *Client) cachePut(m map[string]cacheEntry, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.cacheTTL)}
}
