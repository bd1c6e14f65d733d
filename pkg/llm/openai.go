package llm

import (
	"context"
	"time"
)

// DefaultOpenAIURL is the OpenAI API base URL.
const DefaultOpenAIURL = "https://api.openai.com"

// OpenAI calls the chat completions endpoint.
type OpenAI struct {
	c *client
}

// NewOpenAI creates an OpenAI client. An empty baseURL selects the public API.
func NewOpenAI(apiKey, baseURL string, timeout time.Duration) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	return &OpenAI{c: newClient(baseURL, timeout, map[string]string{
		"Authorization": "Bearer " + apiKey,
	})}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model               string          `json:"model"`
	Messages            []openAIMessage `json:"messages"`
	Temperature         float64         `json:"temperature"`
	MaxCompletionTokens int             `json:"max_completion_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Complete implements Completer. req.Model is the bare model name.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()
	var resp openAIResponse
	err := o.c.postJSON(ctx, "/v1/chat/completions", openAIRequest{
		Model: req.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature:         req.Temperature,
		MaxCompletionTokens: req.MaxTokens,
	}, &resp)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(resp.Choices))
	for i, ch := range resp.Choices {
		parts[i] = ch.Message.Content
	}
	return joinParts(parts), nil
}
