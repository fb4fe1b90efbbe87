package odk

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/frnkmapendo/mega2-sub000/odk/internal/api"
	"github.com/frnkmapendo/mega2-sub000/odk/internal/types"
)

// Project is one ODK Central project.
type Project = types.Project

// Form is one form definition inside a project.
type Form = types.Form

// FetchProjects lists the server's projects, serving a cached copy when one
// is still live. Returns an empty slice on any failure.
func (c *Client) FetchProjects(ctx context.Context) []Project {
	if v, ok := c.cacheGet(c.projectsCache, projectsCacheKey); ok {
		log.Debug().Msg("using cached projects data")
		cacheHitsTotal.WithLabelValues("projects").Inc()
		return v.([]Project)
	}
	cacheMissesTotal.WithLabelValues("projects").Inc()

	if !c.ensureToken(ctx) {
		log.Warn().Msg("no token available, cannot fetch projects")
		return nil
	}

	v, err := c.do(projectsCacheKey, func() (any, error) {
		tctx, cancel := context.WithTimeout(ctx, listTimeout)
		defer cancel()
		projects, err := api.ListProjects(tctx, c.http, c.baseURL, c.currentToken())
		if err != nil {
			return nil, err
		}
		c.cachePut(c.projectsCache, projectsCacheKey, projects)
		return projects, nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch projects")
		return nil
	}
	return v.([]Project)
}

// FetchForms lists the forms of one project, with the same caching contract
// as FetchProjects, keyed per project.
func (c *Client) FetchForms(ctx context.Context, projectID string) []Form {
	key := formsCacheKey(projectID)
	if v, ok := c.cacheGet(c.formsCache, key); ok {
		log.Debug().Str("project_id", projectID).Msg("using cached forms data")
		cacheHitsTotal.WithLabelValues("forms").Inc()
		return v.([]Form)
	}
	cacheMissesTotal.WithLabelValues("forms").Inc()

	if !c.ensureToken(ctx) {
		log.Warn().Msg("no token available, cannot fetch forms")
		return nil
	}

	v, err := c.do(key, func() (any, error) {
		tctx, cancel := context.WithTimeout(ctx, listTimeout)
		defer cancel()
		forms, err := api.ListForms(tctx, c.http, c.baseURL, c.currentToken(), projectID)
		if err != nil {
			return nil, err
		}
		c.cachePut(c.formsCache, key, forms)
		return forms, nil
	})
	if err != nil {
		log.Error().Err(err).Str("project_id", projectID).Msg("failed to fetch forms")
		return nil
	}
	return v.([]Form)
}
