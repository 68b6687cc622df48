package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func issueJSON(number int, title string, labels []string, extra string) string {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = fmt.Sprintf(`{"name": %q}`, l)
	}
	return fmt.Sprintf(`{
		"number": %d,
		"title": %q,
		"html_url": "https://github.com/WordPress/gutenberg/issues/%d",
		"body": "some body",
		"updated_at": "2025-06-01T12:00:00Z",
		"comments": 2,
		"labels": [%s]%s
	}`, number, title, number, strings.Join(quoted, ","), extra)
}

func TestFetchOpenIssuesPaginationAndPRFiltering(t *testing.T) {
	var pagesServed []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/WordPress/gutenberg/issues" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token test-token" {
			t.Errorf("missing token header, got %q", got)
		}
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		switch page {
		case "1":
			fmt.Fprintf(w, "[%s,%s]",
				issueJSON(100, "Button test broken", []string{"Type: Bug"}, ""),
				issueJSON(101, "Some PR", nil, `, "pull_request": {}`))
		case "2":
			fmt.Fprintf(w, "[%s]", issueJSON(102, "Other issue", nil, ""))
		default:
			fmt.Fprint(w, "[]")
		}
	}))
	defer server.Close()

	client := NewClient("test-token", "").WithBaseURL(server.URL)
	records, err := client.FetchOpenIssues(context.Background(), FetchOptions{PerPage: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (PR excluded), got %d", len(records))
	}
	if records[0].ID != 100 || records[1].ID != 102 {
		t.Errorf("unexpected IDs: %d, %d", records[0].ID, records[1].ID)
	}
	if len(pagesServed) != 3 {
		t.Errorf("expected 3 pages requested, got %v", pagesServed)
	}
	if records[0].CommentCount != 2 {
		t.Errorf("comment count not carried: %d", records[0].CommentCount)
	}
}

func TestFetchOpenIssuesMaxPages(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprintf(w, "[%s]", issueJSON(requests, "issue", nil, ""))
	}))
	defer server.Close()

	client := NewClient("", "").WithBaseURL(server.URL)
	records, err := client.FetchOpenIssues(context.Background(), FetchOptions{MaxPages: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 2 {
		t.Errorf("expected fetch to stop after 2 pages, made %d requests", requests)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestBodyTruncation(t *testing.T) {
	longBody := strings.Repeat("a", 5000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"number":     7,
			"title":      "long body",
			"html_url":   "https://example.com/7",
			"body":       longBody,
			"updated_at": "2025-06-01T12:00:00Z",
		}
		json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient("", "").WithBaseURL(server.URL)
	rec, err := client.FetchIssue(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(rec.Body, "... [truncated]") {
		t.Error("long body should carry truncation marker")
	}
	if len(rec.Body) >= len(longBody) {
		t.Error("body was not truncated")
	}
}

func TestFetchIssueRejectsPR(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, issueJSON(9, "a pr", nil, `, "pull_request": {}`))
	}))
	defer server.Close()

	client := NewClient("", "").WithBaseURL(server.URL)
	if _, err := client.FetchIssue(context.Background(), 9); err == nil {
		t.Error("expected error for pull request")
	}
}

func TestFetchCommentsNewestLast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// API returns newest first; client reverses to chronological order.
		fmt.Fprint(w, `[
			{"id": 3, "body": "newest", "user": {"login": "carol"}},
			{"id": 2, "body": "middle", "user": {"login": "bob"}},
			{"id": 1, "body": "oldest", "user": {"login": "alice"}}
		]`)
	}))
	defer server.Close()

	client := NewClient("", "").WithBaseURL(server.URL)
	comments, err := client.FetchComments(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	if comments[0].Author != "alice" || comments[2].Author != "carol" {
		t.Errorf("comments not in chronological order: %+v", comments)
	}
}

func TestHasLinkedPR(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"event": "labeled"},
			{"event": "cross-referenced", "source": {"issue": {"pull_request": {}}}}
		]`)
	}))
	defer server.Close()

	client := NewClient("", "").WithBaseURL(server.URL)
	if !client.HasLinkedPR(context.Background(), 5) {
		t.Error("expected linked PR to be detected")
	}
}

func TestHasLinkedPRBestEffort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("", "").WithBaseURL(server.URL)
	if client.HasLinkedPR(context.Background(), 5) {
		t.Error("timeline failure should read as no linked PR")
	}
}

func TestErrorIncludesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "rate limited"}`)
	}))
	defer server.Close()

	client := NewClient("", "").WithBaseURL(server.URL)
	_, err := client.FetchOpenIssues(context.Background(), FetchOptions{MaxPages: 1})
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status code in error, got %v", err)
	}
}
