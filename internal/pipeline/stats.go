package pipeline

import "time"

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	FilesFound int
	Current    int
	Generated  int
	Skipped    int
	Failed     int

	// Byte totals from the post-run directory re-scan.
	TotalInputBytes  int64
	TotalOutputBytes int64

	Elapsed time.Duration
}

// SpaceSaved returns the aggregate byte difference between sources and
// thumbnails. Positive means the thumbnail set is smaller.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
