package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	apperrors "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/httputil"
	"github.com/matzehuels/mindmap/pkg/observability"
)

// DefaultTimeout bounds one HTTP attempt. Long completions take a while.
const DefaultTimeout = 2 * time.Minute

// client provides shared HTTP functionality for all provider clients.
// It handles retry logic, hooks and common request headers.
type client struct {
	http     *http.Client
	baseURL  string
	headers  map[string]string
	attempts int
	delay    time.Duration
}

func newClient(baseURL string, timeout time.Duration, headers map[string]string) *client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  baseURL,
		headers:  headers,
		attempts: 3,
		delay:    time.Second,
	}
}

// postJSON sends in as JSON to baseURL+path and decodes the response into
// out, retrying transient failures.
func (c *client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode request")
	}
	return httputil.Retry(ctx, c.attempts, c.delay, func() error {
		return c.do(ctx, path, body, out)
	})
}

func (c *client) do(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, urlPath := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, urlPath)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, urlPath, err)
		if ctx.Err() != nil {
			return apperrors.Wrap(apperrors.ErrCodeTimeout, ctx.Err(), "%s", httputil.Describe(req))
		}
		return httputil.TransportError(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, urlPath, resp.StatusCode, time.Since(start))

	if err := httputil.CheckResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "decode %s response", host)
	}
	return nil
}

// missingKey reports a provider used without credentials.
func missingKey(provider, env string) error {
	return apperrors.New(apperrors.ErrCodeUnauthorized, "%s: no API key (set %s)", provider, env)
}
