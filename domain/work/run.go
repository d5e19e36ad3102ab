package work

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BatchRun is the state for one controller invocation: a fixed ordered
// item list, the tuning knobs, and the incrementally populated result
// set. Each run owns its own state; independent runs (for example with
// different credentials) never share rate-limit or result state.
type BatchRun struct {
	id         string
	items      []WorkItem
	batchSize  int
	delay      time.Duration
	maxRetries int

	mu      sync.Mutex
	results map[int]AnnotationResult
}

// NewBatchRun creates a run over the given items. A batch size below 1
// is raised to 1 and a negative delay is clamped to zero.
func NewBatchRun(items []WorkItem, batchSize int, delay time.Duration, maxRetries int) *BatchRun {
	if batchSize < 1 {
		batchSize = 1
	}
	if delay < 0 {
		delay = 0
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	copied := make([]WorkItem, len(items))
	copy(copied, items)
	return &BatchRun{
		id:         uuid.NewString(),
		items:      copied,
		batchSize:  batchSize,
		delay:      delay,
		maxRetries: maxRetries,
		results:    make(map[int]AnnotationResult, len(items)),
	}
}

// ID returns the run's unique identifier.
func (b *BatchRun) ID() string { return b.id }

// Items returns the ordered work items.
func (b *BatchRun) Items() []WorkItem {
	items := make([]WorkItem, len(b.items))
	copy(items, b.items)
	return items
}

// BatchSize returns the per-chunk concurrency bound.
func (b *BatchRun) BatchSize() int { return b.batchSize }

// Delay returns the minimum time between chunk dispatch starts.
func (b *BatchRun) Delay() time.Duration { return b.delay }

// MaxRetries returns the per-item retry budget for rate-limited calls.
func (b *BatchRun) MaxRetries() int { return b.maxRetries }

// Record stores the result for one item. Each item handler owns exactly
// one index, so a key is written at most once per run.
func (b *BatchRun) Record(result AnnotationResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results[result.Index()] = result
}

// Recorded reports whether a result exists for the given index.
func (b *BatchRun) Recorded(index int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.results[index]
	return ok
}

// ResultCount returns the number of recorded results.
func (b *BatchRun) ResultCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.results)
}

// Results returns the recorded results sorted into input order. At the
// end of a run this contains exactly one entry per input item.
func (b *BatchRun) Results() []AnnotationResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	results := make([]AnnotationResult, 0, len(b.results))
	for _, r := range b.results {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index() < results[j].Index()
	})
	return results
}
