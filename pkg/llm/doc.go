// Package llm asks a language model for a category map.
//
// A [Completer] turns a [Request] (system prompt, user message, sampling
// settings) into response text. The response usually wraps a JSON object in
// prose or a ```json fence; package extract recovers it.
//
// # Models
//
// Models are named "provider/name", for example "openai/gpt-4o-mini" or
// "ollama/llama3:instruct". [New] returns a [Router] that dispatches each
// request to the client for its provider:
//
//	router := llm.New(llm.Config{OpenAIKey: os.Getenv("OPENAI_API_KEY")})
//	text, err := router.Complete(ctx, llm.Request{
//	    Model:  "openai/gpt-4o-mini",
//	    System: prompt,
//	    User:   "Tree",
//	})
//
// [KnownModels] lists the models offered by `mindmap models`.
//
// # Errors
//
// Failures carry codes from package errors: UNSUPPORTED for an unknown
// provider, UNAUTHORIZED for a missing key or a 401/403 answer,
// RATE_LIMITED for 429 and NETWORK_ERROR for transport failures and 5xx
// answers. The last two are retried three times with exponential backoff.
package llm
