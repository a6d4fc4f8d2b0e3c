package batch

import (
	"time"
)

// Status is the outcome of one file in a run.
type Status string

const (
	StatusConverted Status = "converted"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusCanceled  Status = "canceled"
)

// FileResult records what happened to one source.
type FileResult struct {
	Source Source
	Status Status
	// Output is the page path; empty for stdout and validate-only runs.
	Output           string
	Format           string
	Valid            bool
	ValidationErrors []string
	Err              error
	Duration         time.Duration
}

// Summary aggregates a run.
type Summary struct {
	RunID        string
	Started      time.Time
	Duration     time.Duration
	ValidateOnly bool
	Results      []FileResult

	Processed int
	Failed    int
	Skipped   int
	Canceled  int
	// Invalid counts processed files whose structured data is malformed.
	Invalid int
}

func (s *Summary) tally() {
	s.Processed, s.Failed, s.Skipped, s.Canceled, s.Invalid = 0, 0, 0, 0, 0
	for _, r := range s.Results {
		switch r.Status {
		case StatusConverted:
			s.Processed++
			if !r.Valid {
				s.Invalid++
			}
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusCanceled:
			s.Canceled++
		}
	}
}

// OK reports whether every started file succeeded. Validate-only runs also
// require every file to be valid.
func (s *Summary) OK() bool {
	if s.Failed > 0 || s.Canceled > 0 {
		return false
	}
	return !s.ValidateOnly || s.Invalid == 0
}

// FirstError returns the first per-file error, in input order.
func (s *Summary) FirstError() error {
	for _, r := range s.Results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// Failures returns the failed results in input order.
func (s *Summary) Failures() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}
