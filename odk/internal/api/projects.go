package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/frnkmapendo/mega2-sub000/odk/internal/types"
)

// ListProjects returns the projects visible to the authenticated session.
func ListProjects(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1/projects", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list projects: status %d", resp.StatusCode)
	}

	var projects []types.Project
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListForms returns the forms belonging to one project.
func ListForms(ctx context.Context, httpClient *http.Client, baseURL, token, projectID string) ([]types.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1/projects/%s/forms", baseURL, projectID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list forms: status %d", resp.StatusCode)
	}

	var forms []types.Form
	if err := json.NewDecoder(resp.Body).Decode(&forms); err != nil {
		return nil, err
	}
	return forms, nil
}
