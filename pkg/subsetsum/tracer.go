package subsetsum

import "time"

// Report describes a completed solve.
type Report struct {
	Requested Algorithm
	Selected  Algorithm
	Size      int
	Workers   int
	FindAll   bool
	Solutions int
	// Truncated is set when workers produced more solutions than were
	// returned.
	Truncated bool
	Duration  time.Duration
}

type Tracer interface {
	Trace(r Report)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ Report) {
}

type multiTracer []Tracer

func (m multiTracer) Trace(r Report) {
	for _, t := range m {
		t.Trace(r)
	}
}

// Tracers returns a Tracer forwarding every Report to each of ts.
func Tracers(ts ...Tracer) Tracer {
	return multiTracer(ts)
}
