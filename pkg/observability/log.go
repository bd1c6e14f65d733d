package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// logger.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to the default logger when l
// is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

// Install registers h for pipeline, cache and HTTP events.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnGenerateStart(_ context.Context, model, central string) {
	h.Logger.Debug("generate", "model", model, "central", central)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, model, central string, d time.Duration, err error) {
	h.done("generated", err, "model", model, "central", central, "duration", d)
}

func (h *LogHooks) OnExtract(_ context.Context, strategy string, categories int, err error) {
	h.done("extracted", err, "strategy", strategy, "categories", categories)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, central string, nodes int) {
	h.Logger.Debug("layout", "central", central, "nodes", nodes)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, central string, d time.Duration, err error) {
	h.done("laid out", err, "central", central, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("rendered", err, "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.Logger.Debug(msg+" with error", append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(msg, kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
