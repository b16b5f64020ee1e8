package sync

import (
	"time"
)

// RunError is one recorded per-mapping failure.
type RunError struct {
	Message   string    `json:"message"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// RunStats aggregates one full pass over the mapping catalog. One
// instance per run; always returned, even when the run aborts at
// connection validation.
type RunStats struct {
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	TotalMappings   int        `json:"total_mappings"`
	SuccessfulSyncs int        `json:"successful_syncs"`
	FailedSyncs     int        `json:"failed_syncs"`
	Aborted         bool       `json:"aborted"`
	Errors          []RunError `json:"errors"`
}

func newRunStats(totalMappings int) *RunStats {
	return &RunStats{
		StartTime:     time.Now(),
		TotalMappings: totalMappings,
		Errors:        []RunError{},
	}
}

func (s *RunStats) recordFailure(message string, err error) {
	s.FailedSyncs++
	s.Errors = append(s.Errors, RunError{
		Message:   message,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

func (s *RunStats) recordSuccess() {
	s.SuccessfulSyncs++
}

func (s *RunStats) complete() {
	s.EndTime = time.Now()
}
