package work

import "context"

// ResultStore persists annotation results keyed by source name and item
// index, so interrupted bulk runs can be resumed and progress reported
// without re-annotating finished rows.
type ResultStore interface {
	// SaveAll persists results for the given items. Items and results
	// are aligned positionally. Saving the same (source, index) twice
	// overwrites the earlier row.
	SaveAll(ctx context.Context, source string, items []WorkItem, results []AnnotationResult) error

	// Count returns the number of stored results for the source.
	Count(ctx context.Context, source string) (int64, error)

	// NextIndex returns the index after the highest stored item index
	// for the source, or 0 when nothing is stored yet.
	NextIndex(ctx context.Context, source string) (int, error)

	// FindBySource returns the stored results for a source in index order.
	FindBySource(ctx context.Context, source string) ([]AnnotationResult, error)
}
