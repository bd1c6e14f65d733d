package llm

import (
	"context"
	"time"
)

// DefaultOllamaURL is where a local Ollama server listens.
const DefaultOllamaURL = "http://localhost:11434"

// Ollama calls a local Ollama server's generate endpoint.
type Ollama struct {
	c *client
}

// NewOllama creates an Ollama client. An empty baseURL selects
// DefaultOllamaURL.
func NewOllama(baseURL string, timeout time.Duration) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return &Ollama{c: newClient(baseURL, timeout, nil)}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Complete implements Completer. req.Model is the bare model name.
func (o *Ollama) Complete(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()
	var resp ollamaResponse
	err := o.c.postJSON(ctx, "/api/generate", ollamaRequest{
		Model:  req.Model,
		System: req.System,
		Prompt: req.User,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}
