package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmissionsCSV_StreamsBody(t *testing.T) {
	t.Parallel()
	const payload = "meta-instanceID,age\nuuid:1,34\nuuid:2,58\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/projects/3/forms/census/submissions.csv" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header: %q", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id header")
		}
		_, _ = io.WriteString(w, payload)
	}))
	defer srv.Close()

	body, err := SubmissionsCSV(context.Background(), srv.Client(), srv.URL, "tok", "3", "census", "req-1")
	if err != nil {
		t.Fatalf("SubmissionsCSV: %v", err)
	}
	defer func() { _ = body.Close() }()

	got, err := io.ReadAll(body)
	if err != nil || string(got) != payload {
		t.Fatalf("body mismatch: got=%q err=%v", got, err)
	}
}

func TestSubmissionsCSV_NonOK(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := SubmissionsCSV(context.Background(), srv.Client(), srv.URL, "tok", "3", "census", ""); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
