package llm

import (
	"context"
	"time"
)

// DefaultAnthropicURL is the Anthropic API base URL.
const DefaultAnthropicURL = "https://api.anthropic.com"

const anthropicVersion = "2023-06-01"

// Anthropic calls the messages endpoint.
type Anthropic struct {
	c *client
}

// NewAnthropic creates an Anthropic client. An empty baseURL selects the
// public API.
func NewAnthropic(apiKey, baseURL string, timeout time.Duration) *Anthropic {
	if baseURL == "" {
		baseURL = DefaultAnthropicURL
	}
	return &Anthropic{c: newClient(baseURL, timeout, map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": anthropicVersion,
	})}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete implements Completer. req.Model is the bare model name.
func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()
	var resp anthropicResponse
	err := a.c.postJSON(ctx, "/v1/messages", anthropicRequest{
		Model:       req.Model,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.User}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}, &resp)
	if err != nil {
		return "", err
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	return joinParts(parts), nil
}
