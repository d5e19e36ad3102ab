// Package service defines the contracts between the batch controller
// and its collaborators: the annotator that produces a summary and
// intent for one text, and the record source and sink that supply work
// items and accept results.
package service

import (
	"context"

	"github.com/voicelayer/annotate/domain/work"
)

// Annotator produces a structured annotation for one transcribed text.
// Implementations classify failures via the provider error taxonomy so
// the controller can distinguish retryable rate-limit rejections from
// terminal per-item failures.
type Annotator interface {
	// Annotate returns the summary and intent for the given text.
	Annotate(ctx context.Context, text string) (work.Annotation, error)
}

// AnnotatorFunc adapts a function to the Annotator interface.
type AnnotatorFunc func(ctx context.Context, text string) (work.Annotation, error)

// Annotate calls f.
func (f AnnotatorFunc) Annotate(ctx context.Context, text string) (work.Annotation, error) {
	return f(ctx, text)
}
