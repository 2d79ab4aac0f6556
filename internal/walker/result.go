package walker

import (
	"time"

	"rawpack/internal/packager"
)

// Outcome classifies what happened to one source file.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeExists  Outcome = "exists"
	OutcomeFailed  Outcome = "failed"
)

// Result is the per-file report produced by a walk.
type Result struct {
	Source   string
	Target   string
	Outcome  Outcome
	Output   packager.Output
	Err      error
	Duration time.Duration
}

// Summary aggregates the results of one PackageFolder call.
type Summary struct {
	Results     []Result
	Started     time.Time
	Duration    time.Duration
	Interrupted bool
}

// Count returns how many results had the given outcome.
func (s Summary) Count(outcome Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failures returns the failed results in walk order.
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Outcome == OutcomeFailed {
			out = append(out, r)
		}
	}
	return out
}

// BytesWritten totals the size of the packaged files created by the walk.
func (s Summary) BytesWritten() int64 {
	var total int64
	for _, r := range s.Results {
		if r.Outcome == OutcomeCreated {
			total += r.Output.TotalBytes()
		}
	}
	return total
}
