package classify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Quota reports the account's rate-limit headroom as returned by the API's
// ratelimit response headers.
type Quota struct {
	RequestsLimit     string
	RequestsRemaining string
	TokensLimit       string
	TokensRemaining   string
	ResetsAt          string
}

func (q *Quota) String() string {
	return fmt.Sprintf("requests: %s/%s remaining | tokens: %s/%s remaining | resets: %s",
		q.RequestsRemaining, q.RequestsLimit, q.TokensRemaining, q.TokensLimit, q.ResetsAt)
}

// CheckQuota issues a minimal request and reads the rate-limit headers off
// the response. Costs one request and a handful of tokens.
func (c *Client) CheckQuota(ctx context.Context) (*Quota, error) {
	var resp *http.Response
	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	}, option.WithResponseInto(&resp))
	if err != nil {
		return nil, fmt.Errorf("quota check failed: %w", err)
	}

	h := resp.Header
	return &Quota{
		RequestsLimit:     h.Get("anthropic-ratelimit-requests-limit"),
		RequestsRemaining: h.Get("anthropic-ratelimit-requests-remaining"),
		TokensLimit:       h.Get("anthropic-ratelimit-tokens-limit"),
		TokensRemaining:   h.Get("anthropic-ratelimit-tokens-remaining"),
		ResetsAt:          h.Get("anthropic-ratelimit-requests-reset"),
	}, nil
}
