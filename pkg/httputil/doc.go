// Package httputil provides HTTP helpers shared by the LLM provider clients.
//
//   - [Retry]: automatic retry with exponential backoff
//   - [CheckResponse]: maps HTTP status codes onto coded errors
//
// # Retry
//
// [Retry] re-runs an operation while it fails with a [RetryableError]:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp)
//	})
//
// [CheckResponse] marks 429 and 5xx responses retryable, so a provider that
// is briefly overloaded is retried three times (1s, then 2s) before the
// caller sees the error.
package httputil
