package solver

import (
	"github.com/charmbracelet/log"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

// LoggingTracer writes one structured log line per solve.
type LoggingTracer struct {
	Logger *log.Logger
}

func (t LoggingTracer) Trace(r subsetsum.Report) {
	t.Logger.Debug("solve finished",
		"requested", r.Requested,
		"algorithm", r.Selected,
		"size", r.Size,
		"workers", r.Workers,
		"find_all", r.FindAll,
		"solutions", r.Solutions,
		"truncated", r.Truncated,
		"elapsed", r.Duration,
	)
}
