package odk

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/frnkmapendo/mega2-sub000/odk/internal/api"
)

// SetCredentials replaces the stored email and password. No network I/O
// happens until Authenticate or a fetch needs a token.
func (c *Client) SetCredentials(email, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.email = email
	c.password = password
}

// SetToken installs a bearer token directly, bypassing Authenticate.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearCredentials nulls email, password and token and empties all three
// caches in one critical section, so no caller can observe partial state.
// The maps are emptied in place rather than replaced; concurrent fetches
// resolve the map fields outside the lock, and a replacement would let them
// write into an orphaned map.
func (c *Client) ClearCredentials() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.email = ""
	c.password = ""
	c.token = ""
	clear(c.projectsCache)
	clear(c.formsCache)
	clear(c.submissionsCache)
}

// Authenticate exchanges the stored credentials for a bearer token. It
// reports success as a boolean and logs the diagnostic on failure; any
// failure also clears a previously held token.
func (c *Client) Authenticate(ctx context.Context) bool {
	c.mu.Lock()
	email, password := c.email, c.password
	c.mu.Unlock()

	if email == "" || password == "" {
		log.Error().Msg("email and password required for authentication")
		return false
	}

	tctx, cancel := context.WithTimeout(ctx, sessionTimeout)
	defer cancel()

	token, err := api.CreateSession(tctx, c.http, c.baseURL, email, password)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("authentication failed")
		authFailuresTotal.Inc()
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		return false
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	log.Info().Str("email", email).Msg("authentication successful")
	return true
}

// currentToken returns the stored token, which may be empty.
func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// ensureToken reuses an existing token or lazily authenticates.
func (c *Client) ensureToken(ctx context.Context) bool {
	if c.currentToken() != "" {
		return true
	}
	return c.Authenticate(ctx)
}
