// Package classify drives the external LLM that scores tickets. One API
// call per ticket, strict JSON out. The failure contract: malformed output
// is retried a fixed number of times and then degraded into a conservative
// fallback verdict; transport failures defer the ticket to the next run.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/debug"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
)

const (
	defaultModel   = "claude-3-5-haiku-20241022"
	defaultRetries = 2
	defaultTimeout = 60 * time.Second
)

// ErrAPIKeyRequired is returned when an API key is needed but not provided.
var ErrAPIKeyRequired = errors.New("API key required")

// errMalformed marks classifier output that failed schema validation.
// Distinct from transport errors: malformed output is retried and then
// degraded, never deferred.
var errMalformed = errors.New("malformed classifier output")

// Client wraps the Anthropic Messages API for ticket classification.
type Client struct {
	client  anthropic.Client
	model   anthropic.Model
	retries int
	timeout time.Duration
	tmpl    *template.Template
	reqOpts []option.RequestOption
}

// Option customizes a Client.
type Option func(*Client)

// WithModel selects the model. Empty keeps the default.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = anthropic.Model(model)
		}
	}
}

// WithRetries sets how many times a validation failure is retried after
// the first attempt.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithTimeout bounds each classification call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRequestOptions appends raw request options to every API call. Tests
// use this to point the client at a mock server and disable SDK retries.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *Client) {
		c.reqOpts = append(c.reqOpts, opts...)
	}
}

// NewClient creates a classifier client. Env var ANTHROPIC_API_KEY takes
// precedence over the explicit apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or the anthropic-api-key config key", ErrAPIKeyRequired)
	}

	tmpl, err := template.New("classify").Parse(userPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	c := &Client{
		model:   defaultModel,
		retries: defaultRetries,
		timeout: defaultTimeout,
		tmpl:    tmpl,
		reqOpts: []option.RequestOption{option.WithAPIKey(apiKey)},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = anthropic.NewClient(c.reqOpts...)
	return c, nil
}

// Classify runs one ticket through the model. Never batched. The returned
// Result is one of: OK (valid verdict), Degraded (fallback verdict after
// exhausted validation retries), or Transport (no verdict, retry next run).
func (c *Client) Classify(ctx context.Context, req Request) Result {
	prompt, err := renderPrompt(c.tmpl, req)
	if err != nil {
		return Result{Kind: KindTransport, Err: fmt.Errorf("failed to render prompt: %w", err)}
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= c.retries; attempt++ {
		attempts++
		text, err := c.call(ctx, prompt)
		if err != nil {
			// Timeout, rate limit, 5xx, network: no verdict, leave the
			// ticket flagged so the next run picks it up again.
			return Result{Kind: KindTransport, Attempts: attempts, Err: err}
		}

		classification, err := parseResponse(text)
		if err == nil {
			return Result{Kind: KindOK, Attempts: attempts, Classification: classification}
		}
		lastErr = err
		debug.Logf("classify: attempt %d invalid output: %v", attempts, err)
	}

	debug.Logf("classify: degrading after %d attempts: %v", attempts, lastErr)
	return Result{
		Kind:           KindDegraded,
		Attempts:       attempts,
		Err:            lastErr,
		Classification: degradedClassification(lastErr),
	}
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	if len(message.Content) == 0 {
		// An empty reply is the model's fault, not the wire's: count it
		// against the validation retries.
		return "", nil
	}
	return message.Content[0].Text, nil
}

// wireClassification mirrors the required response schema. Pointer fields
// distinguish missing keys from empty values.
type wireClassification struct {
	Difficulty    *string   `json:"difficulty"`
	SkillMatch    *string   `json:"skill_match"`
	ScopeClarity  *string   `json:"scope_clarity"`
	TestFocused   *string   `json:"test_focused"`
	RiskFlags     *[]string `json:"risk_flags"`
	OneLineReason *string   `json:"one_line_reason"`
	Summary       string    `json:"summary"`
}

// parseResponse decodes and validates the model's reply. Markdown fences
// are stripped first since models wrap JSON in them despite instructions.
func parseResponse(text string) (*ticket.Classification, error) {
	content := strings.TrimSpace(text)
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) >= 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()
	var wire wireClassification
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	missing := []string{}
	if wire.Difficulty == nil {
		missing = append(missing, "difficulty")
	}
	if wire.SkillMatch == nil {
		missing = append(missing, "skill_match")
	}
	if wire.ScopeClarity == nil {
		missing = append(missing, "scope_clarity")
	}
	if wire.TestFocused == nil {
		missing = append(missing, "test_focused")
	}
	if wire.RiskFlags == nil {
		missing = append(missing, "risk_flags")
	}
	if wire.OneLineReason == nil {
		missing = append(missing, "one_line_reason")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing keys %v", errMalformed, missing)
	}

	classification := &ticket.Classification{
		Difficulty:   *wire.Difficulty,
		SkillMatch:   *wire.SkillMatch,
		ScopeClarity: *wire.ScopeClarity,
		TestFocused:  *wire.TestFocused,
		RiskFlags:    *wire.RiskFlags,
		Reason:       *wire.OneLineReason,
		Summary:      wire.Summary,
	}
	if err := classification.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return classification, nil
}

// degradedClassification is the conservative fallback applied when the
// model never produced valid output: the ticket stays visible in the
// ledger with an explicit failure flag instead of staying unclassified.
func degradedClassification(cause error) *ticket.Classification {
	reason := "unparseable classifier output"
	if cause != nil {
		reason = cause.Error()
	}
	return &ticket.Classification{
		Difficulty:   ticket.DifficultyMedium,
		SkillMatch:   ticket.SkillMaybe,
		ScopeClarity: ticket.ScopeUnclear,
		TestFocused:  ticket.TestFocusedUnclear,
		RiskFlags:    []string{"classification failed: " + reason},
		Reason:       "degraded fallback after repeated validation failures",
	}
}
