package odk

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/frnkmapendo/mega2-sub000/odk/internal/api"
)

// FetchSubmissions downloads one form's submissions as a decoded Table.
//
// The caching contract matches the other fetches, except that forceRefresh
// skips the validity check entirely and always refetches, overwriting the
// stored entry. The CSV body is decoded while it streams; the raw response
// never sits in memory alongside the decoded rows.
//
// Failures come back as values: an empty Table when auth or arguments are
// missing, a one-column Error table for transport failures, with distinct
// messages for timeout, connection failure and anything else.
func (c *Client) FetchSubmissions(ctx context.Context, projectID, formID string, forceRefresh bool) *Table {
	key := submissionsCacheKey(projectID, formID)
	if forceRefresh {
		forceRefreshTotal.Inc()
	} else if v, ok := c.cacheGet(c.submissionsCache, key); ok {
		log.Debug().Str("project_id", projectID).Str("form_id", formID).Msg("using cached submissions data")
		cacheHitsTotal.WithLabelValues("submissions").Inc()
		return v.(*Table)
	}
	if !forceRefresh {
		cacheMissesTotal.WithLabelValues("submissions").Inc()
	}

	if !c.ensureToken(ctx) {
		log.Warn().Msg("no token available, cannot fetch submissions")
		return &Table{}
	}
	if projectID == "" || formID == "" {
		log.Warn().Msg("missing project or form ID for submissions fetch")
		return &Table{}
	}

	v, err := c.do(key, func() (any, error) {
		requestID := uuid.NewString()
		log.Debug().
			Str("project_id", projectID).
			Str("form_id", formID).
			Str("request_id", requestID).
			Msg("fetching submissions")

		tctx, cancel := context.WithTimeout(ctx, submissionsTimeout)
		defer cancel()

		body, err := api.SubmissionsCSV(tctx, c.http, c.baseURL, c.currentToken(), projectID, formID, requestID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = body.Close() }()

		table, err := readCSVTable(body)
		if err != nil {
			return nil, err
		}
		c.cachePut(c.submissionsCache, key, table)
		return table, nil
	})
	if err != nil {
		log.Error().Err(err).
			Str("project_id", projectID).
			Str("form_id", formID).
			Msg("failed to fetch submissions")
		return transportErrorTable(err)
	}
	return v.(*Table)
}
