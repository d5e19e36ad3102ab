package work

// Status represents the terminal state of one work item.
type Status string

// Status values.
const (
	// StatusSuccess means the annotator produced a summary and intent.
	StatusSuccess Status = "success"

	// StatusFailed means the item failed terminally: retries exhausted,
	// a non-retryable rejection, or an empty input.
	StatusFailed Status = "failed"

	// StatusUnattempted means the run aborted before the item was
	// dispatched. Unattempted items still get a result so the output
	// always has one entry per input item.
	StatusUnattempted Status = "unattempted"
)

// String returns the status as a string.
func (s Status) String() string { return string(s) }

// Annotation is the payload produced by a successful annotator call.
type Annotation struct {
	summary string
	intent  string
}

// NewAnnotation creates a new Annotation.
func NewAnnotation(summary, intent string) Annotation {
	return Annotation{summary: summary, intent: intent}
}

// Summary returns the one-line English summary.
func (a Annotation) Summary() string { return a.summary }

// Intent returns the short intent label.
func (a Annotation) Intent() string { return a.intent }

// AnnotationResult records the terminal outcome for one work item.
// Exactly one result exists per input item at the end of a run.
type AnnotationResult struct {
	index    int
	status   Status
	summary  string
	intent   string
	errMsg   string
	attempts int
}

// SuccessResult creates a result for a successfully annotated item.
func SuccessResult(index int, annotation Annotation, attempts int) AnnotationResult {
	return AnnotationResult{
		index:    index,
		status:   StatusSuccess,
		summary:  annotation.Summary(),
		intent:   annotation.Intent(),
		attempts: attempts,
	}
}

// FailedResult creates a result for a terminally failed item.
func FailedResult(index int, errMsg string, attempts int) AnnotationResult {
	return AnnotationResult{
		index:    index,
		status:   StatusFailed,
		errMsg:   errMsg,
		attempts: attempts,
	}
}

// UnattemptedResult creates a result for an item the run never
// dispatched, carrying the reason the run stopped.
func UnattemptedResult(index int, reason string) AnnotationResult {
	return AnnotationResult{
		index:  index,
		status: StatusUnattempted,
		errMsg: reason,
	}
}

// NewAnnotationResult creates a result with all fields (used by the
// result store when loading persisted rows).
func NewAnnotationResult(index int, status Status, summary, intent, errMsg string, attempts int) AnnotationResult {
	return AnnotationResult{
		index:    index,
		status:   status,
		summary:  summary,
		intent:   intent,
		errMsg:   errMsg,
		attempts: attempts,
	}
}

// Index returns the index of the originating WorkItem.
func (r AnnotationResult) Index() int { return r.index }

// Status returns the terminal status.
func (r AnnotationResult) Status() Status { return r.status }

// Summary returns the produced summary. Empty unless Status is StatusSuccess.
func (r AnnotationResult) Summary() string { return r.summary }

// Intent returns the produced intent label. Empty unless Status is StatusSuccess.
func (r AnnotationResult) Intent() string { return r.intent }

// Error returns the failure reason. Empty when Status is StatusSuccess.
func (r AnnotationResult) Error() string { return r.errMsg }

// Attempts returns how many annotator calls were made for the item.
func (r AnnotationResult) Attempts() int { return r.attempts }

// Succeeded reports whether the item was annotated successfully.
func (r AnnotationResult) Succeeded() bool { return r.status == StatusSuccess }
