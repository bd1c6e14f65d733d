// Package cli implements the mindmap command-line interface.
//
// The CLI generates category maps with a language model, extracts maps from
// saved model answers, lays maps out radially and renders them as SVG, PNG,
// PDF, DOT or layout JSON. It is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Ask a model for a category map and render it
//   - extract: Recover a category map from a saved model answer
//   - layout: Compute a layout from a category map file
//   - visualize: Render a computed layout
//   - render: Go from a category map file straight to rendered output
//   - browse: Pick a saved map interactively
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// installs logging hooks for the pipeline, the cache and model requests.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Generated map (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
