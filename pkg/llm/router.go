package llm

import (
	"context"
	"sync"
	"time"
)

// Config holds credentials and endpoints for every provider.
type Config struct {
	OpenAIKey    string
	OpenAIURL    string
	AnthropicKey string
	AnthropicURL string
	OllamaURL    string
	Timeout      time.Duration
}

// Router dispatches requests to a provider client chosen by the model prefix.
// Clients are created on first use. A Router is safe for concurrent use.
type Router struct {
	cfg Config

	mu      sync.Mutex
	clients map[string]Completer
}

// New creates a Router.
func New(cfg Config) *Router {
	return &Router{cfg: cfg, clients: make(map[string]Completer)}
}

// Complete implements Completer. req.Model must be "provider/name".
func (r *Router) Complete(ctx context.Context, req Request) (string, error) {
	provider, name, err := ParseModel(req.Model)
	if err != nil {
		return "", err
	}
	c, err := r.client(provider)
	if err != nil {
		return "", err
	}
	req.Model = name
	return c.Complete(ctx, req)
}

// Check reports whether model can be used with this configuration without
// making a request.
func (r *Router) Check(model string) error {
	provider, _, err := ParseModel(model)
	if err != nil {
		return err
	}
	_, err = r.client(provider)
	return err
}

func (r *Router) client(provider string) (Completer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[provider]; ok {
		return c, nil
	}

	var c Completer
	switch provider {
	case ProviderOpenAI:
		if r.cfg.OpenAIKey == "" {
			return nil, missingKey(provider, "OPENAI_API_KEY")
		}
		c = NewOpenAI(r.cfg.OpenAIKey, r.cfg.OpenAIURL, r.cfg.Timeout)
	case ProviderAnthropic:
		if r.cfg.AnthropicKey == "" {
			return nil, missingKey(provider, "ANTHROPIC_API_KEY")
		}
		c = NewAnthropic(r.cfg.AnthropicKey, r.cfg.AnthropicURL, r.cfg.Timeout)
	case ProviderOllama:
		c = NewOllama(r.cfg.OllamaURL, r.cfg.Timeout)
	}
	r.clients[provider] = c
	return c, nil
}

var (
	_ Completer = (*Router)(nil)
	_ Completer = (*OpenAI)(nil)
	_ Completer = (*Anthropic)(nil)
	_ Completer = (*Ollama)(nil)
)
