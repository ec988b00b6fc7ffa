// Package cli implements the beavr command-line interface.
//
// The commands wrap the pipeline package: decompose and combine read a
// dataset file and print their results, explore opens an interactive view of
// the components, serve starts the HTTP API, and cache manages the result
// cache. The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - decompose: components, trees and layouts for one color set
//   - combine: inclusion-exclusion terms for every pattern coloring
//   - sample: four color sets of pattern size
//   - explore: toggle colors and watch the components change
//   - serve: the JSON HTTP API
//   - cache: clear or locate the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports pipeline and cache events.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
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

// done logs msg along with the elapsed time, e.g. "Decomposed step 0 (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
