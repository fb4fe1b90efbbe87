package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// SubmissionsCSV requests the submissions export for one form and hands the
// raw response body back to the caller. The body is not buffered here so that
// arbitrarily large exports can be decoded incrementally; the caller owns the
// ReadCloser and must close it.
func SubmissionsCSV(ctx context.Context, httpClient *http.Client, baseURL, token, projectID, formID, requestID string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1/projects/%s/forms/%s/submissions.csv", baseURL, projectID, formID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	if requestID != "" {
		httpReq.Header.Set("X-Request-Id", requestID)
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch submissions: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
