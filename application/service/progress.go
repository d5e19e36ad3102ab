package service

import (
	"context"
	"fmt"

	domainservice "github.com/voicelayer/annotate/domain/service"
	"github.com/voicelayer/annotate/domain/work"
)

// ProgressEvent is one advisory progress notification from a running
// batch: which item finished, how it ended, and how far the run is.
type ProgressEvent struct {
	index      int
	identifier string
	status     work.Status
	errMsg     string
	completed  int
	total      int
}

// NewProgressEvent creates a new ProgressEvent.
func NewProgressEvent(index int, identifier string, status work.Status, errMsg string, completed, total int) ProgressEvent {
	return ProgressEvent{
		index:      index,
		identifier: identifier,
		status:     status,
		errMsg:     errMsg,
		completed:  completed,
		total:      total,
	}
}

// Index returns the finished item's index.
func (e ProgressEvent) Index() int { return e.index }

// Identifier returns the finished item's identifier.
func (e ProgressEvent) Identifier() string { return e.identifier }

// Status returns the item's terminal status.
func (e ProgressEvent) Status() work.Status { return e.status }

// Error returns the failure reason, if any.
func (e ProgressEvent) Error() string { return e.errMsg }

// Completed returns how many items have results so far.
func (e ProgressEvent) Completed() int { return e.completed }

// Total returns the run's item count.
func (e ProgressEvent) Total() int { return e.total }

// ProgressFunc observes per-item progress during a run.
type ProgressFunc func(ProgressEvent)

// ProgressReport summarizes how much of a source has been processed.
type ProgressReport struct {
	source    string
	total     int
	processed int
}

// NewProgressReport creates a new ProgressReport.
func NewProgressReport(source string, total, processed int) ProgressReport {
	return ProgressReport{source: source, total: total, processed: processed}
}

// Source returns the source name.
func (r ProgressReport) Source() string { return r.source }

// Total returns the number of records in the source.
func (r ProgressReport) Total() int { return r.total }

// Processed returns the number of records with stored results.
func (r ProgressReport) Processed() int { return r.processed }

// Remaining returns the number of unprocessed records.
func (r ProgressReport) Remaining() int {
	if r.processed > r.total {
		return 0
	}
	return r.total - r.processed
}

// Percent returns the completion percentage (0-100).
func (r ProgressReport) Percent() float64 {
	if r.total == 0 {
		return 0
	}
	return float64(r.processed) / float64(r.total) * 100
}

// Done reports whether every record has a stored result.
func (r ProgressReport) Done() bool {
	return r.processed >= r.total
}

// Progress reports processing state for a source by comparing the
// record count against the stored results.
type Progress struct {
	store work.ResultStore
}

// NewProgress creates a new Progress service.
func NewProgress(store work.ResultStore) *Progress {
	return &Progress{store: store}
}

// Report builds a ProgressReport for a source.
func (p *Progress) Report(ctx context.Context, source string, records domainservice.RecordSource) (ProgressReport, error) {
	total, err := records.Count(ctx)
	if err != nil {
		return ProgressReport{}, fmt.Errorf("count source records: %w", err)
	}

	processed, err := p.store.Count(ctx, source)
	if err != nil {
		return ProgressReport{}, fmt.Errorf("count stored results: %w", err)
	}

	return NewProgressReport(source, total, int(processed)), nil
}

// ResumeOffset returns the offset from which a resumed run should read:
// the index after the highest stored item index for the source.
func (p *Progress) ResumeOffset(ctx context.Context, source string) (int, error) {
	next, err := p.store.NextIndex(ctx, source)
	if err != nil {
		return 0, fmt.Errorf("find resume offset: %w", err)
	}
	return next, nil
}
