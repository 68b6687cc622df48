// Package github fetches open issues from the GitHub REST API. It is the
// read-only ticket source for the triage pipeline: issues come back as
// ledger observations with labels, truncated bodies, and change-relevant
// metadata; pull requests are skipped.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/debug"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

const (
	// DefaultBaseURL is the public GitHub API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultRepo is the repository triaged when none is configured.
	DefaultRepo = "WordPress/gutenberg"

	// DefaultTimeout bounds each API request.
	DefaultTimeout = 30 * time.Second
)

// Client talks to the GitHub REST API for a single repository.
type Client struct {
	Token      string
	Repo       string
	BaseURL    string
	BodyLimit  int
	HTTPClient *http.Client
}

// Comment is a recent issue comment, used for prompt context.
type Comment struct {
	ID     int64  `json:"id"`
	Author string `json:"author"`
	Body   string `json:"body"`
}

// NewClient creates a client for the given repository.
func NewClient(token, repo string) *Client {
	if repo == "" {
		repo = DefaultRepo
	}
	return &Client{
		Token:     token,
		Repo:      repo,
		BaseURL:   DefaultBaseURL,
		BodyLimit: ticket.BodyLimit,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithBaseURL returns a copy of the client pointed at the given endpoint.
// Used by tests to target a local mock server.
func (c *Client) WithBaseURL(baseURL string) *Client {
	out := *c
	out.BaseURL = baseURL
	return &out
}

// WithHTTPClient returns a copy of the client using the given HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	out := *c
	out.HTTPClient = httpClient
	return &out
}

// FetchOptions bounds a listing run.
type FetchOptions struct {
	PerPage  int       // issues per page, capped at 100
	MaxPages int       // 0 means all pages
	Since    time.Time // only issues updated after this instant
}

// issuePayload is the subset of the GitHub issue object the pipeline reads.
type issuePayload struct {
	Number    int64  `json:"number"`
	Title     string `json:"title"`
	HTMLURL   string `json:"html_url"`
	Body      string `json:"body"`
	UpdatedAt string `json:"updated_at"`
	Comments  int    `json:"comments"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignee *struct {
		Login string `json:"login"`
	} `json:"assignee"`
	PullRequest *struct{} `json:"pull_request"`
}

// FetchOpenIssues lists open issues sorted by most recently updated,
// excluding pull requests, following pagination until exhausted or the
// page bound is reached.
func (c *Client) FetchOpenIssues(ctx context.Context, opts FetchOptions) ([]*ticket.Record, error) {
	perPage := opts.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}

	var records []*ticket.Record
	for page := 1; ; page++ {
		params := url.Values{
			"state":     {"open"},
			"per_page":  {strconv.Itoa(perPage)},
			"page":      {strconv.Itoa(page)},
			"sort":      {"updated"},
			"direction": {"desc"},
		}
		if !opts.Since.IsZero() {
			params.Set("since", opts.Since.UTC().Format(time.RFC3339))
		}

		var payload []issuePayload
		if err := c.get(ctx, fmt.Sprintf("/repos/%s/issues", c.Repo), params, &payload); err != nil {
			return nil, fmt.Errorf("failed to list issues (page %d): %w", page, err)
		}
		if len(payload) == 0 {
			break
		}

		for _, p := range payload {
			if p.PullRequest != nil {
				continue
			}
			rec, err := c.toRecord(p)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}

		if opts.MaxPages > 0 && page >= opts.MaxPages {
			break
		}
	}
	debug.Logf("github: fetched %d open issues from %s", len(records), c.Repo)
	return records, nil
}

// FetchIssue fetches a single issue by number.
func (c *Client) FetchIssue(ctx context.Context, number int64) (*ticket.Record, error) {
	var payload issuePayload
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/issues/%d", c.Repo, number), nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}
	if payload.PullRequest != nil {
		return nil, fmt.Errorf("#%d is a pull request, not an issue", number)
	}
	return c.toRecord(payload)
}

// FetchComments returns the most recent comments on an issue, newest last,
// at most max entries.
func (c *Client) FetchComments(ctx context.Context, number int64, max int) ([]Comment, error) {
	var payload []struct {
		ID   int64  `json:"id"`
		Body string `json:"body"`
		User struct {
			Login string `json:"login"`
		} `json:"user"`
	}
	params := url.Values{
		"sort":      {"created"},
		"direction": {"desc"},
		"per_page":  {strconv.Itoa(max)},
	}
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/issues/%d/comments", c.Repo, number), params, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch comments for #%d: %w", number, err)
	}

	comments := make([]Comment, 0, len(payload))
	for i := len(payload) - 1; i >= 0; i-- {
		p := payload[i]
		comments = append(comments, Comment{ID: p.ID, Author: p.User.Login, Body: p.Body})
	}
	return comments, nil
}

// HasLinkedPR reports whether the issue has a cross-referenced pull request
// in its timeline. Best-effort: any error reads as false so a flaky
// timeline endpoint never fails a run.
func (c *Client) HasLinkedPR(ctx context.Context, number int64) bool {
	var events []struct {
		Event  string `json:"event"`
		Source struct {
			Issue struct {
				PullRequest *struct{} `json:"pull_request"`
			} `json:"issue"`
		} `json:"source"`
	}
	err := c.get(ctx, fmt.Sprintf("/repos/%s/issues/%d/timeline", c.Repo, number), nil, &events)
	if err != nil {
		debug.Logf("github: timeline check for #%d failed: %v", number, err)
		return false
	}
	for _, e := range events {
		if e.Event == "cross-referenced" && e.Source.Issue.PullRequest != nil {
			return true
		}
	}
	return false
}

// CheckAuth verifies the token can read the configured repository.
func (c *Client) CheckAuth(ctx context.Context) error {
	var repo struct {
		FullName string `json:"full_name"`
	}
	if err := c.get(ctx, fmt.Sprintf("/repos/%s", c.Repo), nil, &repo); err != nil {
		return fmt.Errorf("github connectivity check failed: %w", err)
	}
	return nil
}

func (c *Client) toRecord(p issuePayload) (*ticket.Record, error) {
	updatedAt, err := time.Parse(time.RFC3339, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("issue #%d has malformed updated_at %q: %w", p.Number, p.UpdatedAt, err)
	}

	labels := make([]string, len(p.Labels))
	for i, l := range p.Labels {
		labels[i] = l.Name
	}
	assignee := ""
	if p.Assignee != nil {
		assignee = p.Assignee.Login
	}

	return &ticket.Record{
		ID:           p.Number,
		Title:        p.Title,
		URL:          p.HTMLURL,
		Labels:       labels,
		Body:         ticket.TruncateBody(p.Body, c.BodyLimit),
		UpdatedAt:    updatedAt,
		Assignee:     assignee,
		CommentCount: p.Comments,
		Status:       ticket.StatusNew,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github API returned %d: %s", resp.StatusCode, truncateForError(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func truncateForError(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
