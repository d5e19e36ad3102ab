package service

import (
	"context"

	"github.com/voicelayer/annotate/domain/work"
)

// RecordSource supplies the ordered work items for a run. Indexes are
// assigned by the source as 0-based absolute record positions, so an
// item read at offset 10 has index 10. That keeps resumed runs aligned
// with the result store.
type RecordSource interface {
	// Read returns up to limit items starting at offset. A limit of 0
	// means no limit.
	Read(ctx context.Context, limit, offset int) ([]work.WorkItem, error)

	// Count returns the total number of records in the source.
	Count(ctx context.Context) (int, error)
}

// ResultSink accepts the final ordered result sequence for persistence.
type ResultSink interface {
	// Write persists results for the given items. Items and results are
	// aligned by index and in input order.
	Write(ctx context.Context, items []work.WorkItem, results []work.AnnotationResult) error
}
