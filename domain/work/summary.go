package work

import "time"

// RunSummary aggregates per-item outcomes for the end-of-run report.
type RunSummary struct {
	total       int
	succeeded   int
	failed      int
	skipped     int
	unattempted int
	elapsed     time.Duration
}

// NewRunSummary derives a summary from a result slice. Failures that
// never reached the annotator (zero attempts) are counted as skipped.
func NewRunSummary(results []AnnotationResult, elapsed time.Duration) RunSummary {
	s := RunSummary{total: len(results), elapsed: elapsed}
	for _, r := range results {
		switch r.Status() {
		case StatusSuccess:
			s.succeeded++
		case StatusUnattempted:
			s.unattempted++
		default:
			s.failed++
			if r.Attempts() == 0 {
				s.skipped++
			}
		}
	}
	return s
}

// Total returns the number of input items.
func (s RunSummary) Total() int { return s.total }

// Succeeded returns the number of successfully annotated items.
func (s RunSummary) Succeeded() int { return s.succeeded }

// Failed returns the number of terminally failed items.
func (s RunSummary) Failed() int { return s.failed }

// Skipped returns how many failures were recorded without an
// annotator call, such as empty transcriptions.
func (s RunSummary) Skipped() int { return s.skipped }

// Unattempted returns the number of items never dispatched.
func (s RunSummary) Unattempted() int { return s.unattempted }

// Elapsed returns the wall-clock duration of the run.
func (s RunSummary) Elapsed() time.Duration { return s.elapsed }

// Rate returns processed items per second, or zero for an instant run.
func (s RunSummary) Rate() float64 {
	if s.elapsed <= 0 {
		return 0
	}
	return float64(s.total) / s.elapsed.Seconds()
}
