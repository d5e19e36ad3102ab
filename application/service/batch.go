// Package service contains the application services that drive a batch
// annotation run: the batch submission controller and the progress
// reporting over previously persisted results.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	domainservice "github.com/voicelayer/annotate/domain/service"
	"github.com/voicelayer/annotate/domain/work"
	"github.com/voicelayer/annotate/infrastructure/provider"
)

// ErrAuthenticationFailed indicates the first items of a run all failed
// with the same credential rejection, so the rest of the input was not
// attempted.
var ErrAuthenticationFailed = errors.New("authentication rejected for consecutive items, aborting run")

// Default controller tuning.
const (
	DefaultBatchSize            = 5
	DefaultDelay                = 1 * time.Second
	DefaultMaxRetries           = 3
	DefaultBackoffFactor        = 2.0
	DefaultAuthFailureThreshold = 3
)

// Batch drives an ordered item list to completion against an annotator
// while bounding concurrency and request rate. One item's failure never
// aborts the run; only a credential rejection affecting the first items
// does. The returned results are always in input order with exactly one
// entry per input item.
type Batch struct {
	annotator      domainservice.Annotator
	batchSize      int
	delay          time.Duration
	maxRetries     int
	initialBackoff time.Duration
	backoffFactor  float64
	authThreshold  int
	progress       ProgressFunc
	log            *slog.Logger
}

// NewBatch creates a controller with default tuning.
func NewBatch(annotator domainservice.Annotator, log *slog.Logger) *Batch {
	return &Batch{
		annotator:      annotator,
		batchSize:      DefaultBatchSize,
		delay:          DefaultDelay,
		maxRetries:     DefaultMaxRetries,
		initialBackoff: DefaultDelay,
		backoffFactor:  DefaultBackoffFactor,
		authThreshold:  DefaultAuthFailureThreshold,
		log:            log,
	}
}

// WithBatchSize sets the per-chunk concurrency bound.
func (b *Batch) WithBatchSize(n int) *Batch {
	if n >= 1 {
		b.batchSize = n
	}
	return b
}

// WithDelay sets the minimum time between chunk dispatch starts. A
// positive delay also becomes the first retry backoff (WithInitialBackoff
// overrides it); a zero delay leaves the backoff alone so retries
// still wait.
func (b *Batch) WithDelay(d time.Duration) *Batch {
	if d >= 0 {
		b.delay = d
	}
	if d > 0 {
		b.initialBackoff = d
	}
	return b
}

// WithMaxRetries sets the per-item retry budget for rate-limited calls.
func (b *Batch) WithMaxRetries(n int) *Batch {
	if n >= 0 {
		b.maxRetries = n
	}
	return b
}

// WithInitialBackoff sets the first retry delay. Later retries grow by
// the backoff factor, so each wait is strictly longer than the previous.
func (b *Batch) WithInitialBackoff(d time.Duration) *Batch {
	if d > 0 {
		b.initialBackoff = d
	}
	return b
}

// WithBackoffFactor sets the retry backoff multiplier.
func (b *Batch) WithBackoffFactor(f float64) *Batch {
	if f > 1 {
		b.backoffFactor = f
	}
	return b
}

// WithAuthFailureThreshold sets how many consecutive identical
// credential rejections at the start of a run abort it.
func (b *Batch) WithAuthFailureThreshold(n int) *Batch {
	if n >= 1 {
		b.authThreshold = n
	}
	return b
}

// WithProgress sets the observer for per-item progress notifications.
// Advisory only; the callback must not block for long.
func (b *Batch) WithProgress(fn ProgressFunc) *Batch {
	b.progress = fn
	return b
}

// Run processes items chunk by chunk and returns one result per item in
// input order. Individual item failures are captured as data; the
// returned error is non-nil only for run-level conditions (credential
// rejection, cancellation), in which case the results still cover every
// item with unattempted markers for the remainder.
func (b *Batch) Run(ctx context.Context, items []work.WorkItem) ([]work.AnnotationResult, error) {
	if len(items) == 0 {
		return nil, nil
	}

	run := work.NewBatchRun(items, b.batchSize, b.delay, b.maxRetries)

	b.log.Info("batch run started",
		slog.String("run_id", run.ID()),
		slog.Int("items", len(items)),
		slog.Int("batch_size", run.BatchSize()),
		slog.Duration("delay", run.Delay()),
	)

	// The limiter paces chunk dispatch starts: one token per delay
	// interval, so chunk N+1 starts at least delay after chunk N
	// started, regardless of when chunk N finishes. The semaphore
	// bounds in-flight calls; retrying items keep their slot.
	limiter := rate.NewLimiter(rate.Every(run.Delay()), 1)
	sem := semaphore.NewWeighted(int64(run.BatchSize()))

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	breaker := newAuthBreaker(b.authThreshold)

	var wg sync.WaitGroup

dispatch:
	for _, chunk := range chunkItems(items, run.BatchSize()) {
		if err := limiter.Wait(runCtx); err != nil {
			break dispatch
		}

		for _, item := range chunk {
			if err := sem.Acquire(runCtx, 1); err != nil {
				break dispatch
			}

			wg.Add(1)
			go func(item work.WorkItem) {
				defer wg.Done()
				defer sem.Release(1)

				result, err := b.processItem(runCtx, run, item)
				run.Record(result)

				// Items that never reached the annotator say nothing
				// about the credential, so they leave the breaker alone.
				if err != nil && provider.IsAuthFailure(err) {
					if breaker.recordAuthFailure(authStatus(err)) {
						b.log.Error("credential rejected for consecutive items, aborting run",
							slog.String("run_id", run.ID()),
						)
						cancel(ErrAuthenticationFailed)
					}
				} else if result.Attempts() > 0 {
					breaker.disarm()
				}

				b.notify(run, result, item)
			}(item)
		}
	}

	wg.Wait()

	// Every undispatched item still gets a result so the output covers
	// the full input.
	reason := unattemptedReason(runCtx)
	for _, item := range items {
		if !run.Recorded(item.Index()) {
			run.Record(work.UnattemptedResult(item.Index(), reason))
		}
	}

	results := run.Results()

	if errors.Is(context.Cause(runCtx), ErrAuthenticationFailed) {
		return results, ErrAuthenticationFailed
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	b.log.Info("batch run finished",
		slog.String("run_id", run.ID()),
		slog.Int("results", len(results)),
	)
	return results, nil
}

// processItem issues the annotator call for one item, retrying on
// rate-limit rejections with strictly increasing backoff. The second
// return value carries the final error (nil on success) so the caller
// can feed the auth breaker.
func (b *Batch) processItem(ctx context.Context, run *work.BatchRun, item work.WorkItem) (work.AnnotationResult, error) {
	text := strings.TrimSpace(item.Text())
	if text == "" {
		return work.FailedResult(item.Index(), "empty transcription", 0), nil
	}

	backoff := b.initialBackoff
	var lastErr error

	for attempt := 0; attempt <= run.MaxRetries(); attempt++ {
		if attempt > 0 {
			b.log.Debug("retrying rate-limited item",
				slog.String("run_id", run.ID()),
				slog.Int("index", item.Index()),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return work.FailedResult(item.Index(), ctx.Err().Error(), attempt), ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * b.backoffFactor)
		}

		annotation, err := b.annotator.Annotate(ctx, text)
		if err == nil {
			return work.SuccessResult(item.Index(), annotation, attempt+1), nil
		}
		lastErr = err

		if !provider.IsRateLimited(err) {
			return work.FailedResult(item.Index(), err.Error(), attempt+1), err
		}
	}

	msg := fmt.Sprintf("rate limited, retries exhausted after %d attempts: %v", run.MaxRetries()+1, lastErr)
	return work.FailedResult(item.Index(), msg, run.MaxRetries()+1), lastErr
}

func (b *Batch) notify(run *work.BatchRun, result work.AnnotationResult, item work.WorkItem) {
	if b.progress == nil {
		return
	}
	b.progress(NewProgressEvent(
		item.Index(),
		item.Identifier(),
		result.Status(),
		result.Error(),
		run.ResultCount(),
		len(run.Items()),
	))
}

// chunkItems partitions items into consecutive chunks of size n; the
// final chunk may be shorter.
func chunkItems(items []work.WorkItem, n int) [][]work.WorkItem {
	var chunks [][]work.WorkItem
	for start := 0; start < len(items); start += n {
		end := start + n
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

func unattemptedReason(ctx context.Context) string {
	if cause := context.Cause(ctx); cause != nil {
		return cause.Error()
	}
	return "not attempted"
}

func authStatus(err error) int {
	var provErr *provider.ProviderError
	if errors.As(err, &provErr) {
		return provErr.StatusCode()
	}
	return 0
}

// authBreaker trips when the first threshold consecutive outcomes of a
// run are credential rejections with the same status. Any other outcome
// disarms it for the rest of the run.
type authBreaker struct {
	mu        sync.Mutex
	threshold int
	status    int
	count     int
	disarmed  bool
	tripped   bool
}

func newAuthBreaker(threshold int) *authBreaker {
	return &authBreaker{threshold: threshold}
}

// recordAuthFailure counts a credential rejection and reports whether
// the breaker just tripped.
func (br *authBreaker) recordAuthFailure(status int) bool {
	br.mu.Lock()
	defer br.mu.Unlock()

	if br.disarmed || br.tripped {
		return false
	}
	if br.count > 0 && br.status != status {
		br.disarmed = true
		return false
	}
	br.status = status
	br.count++
	if br.count >= br.threshold {
		br.tripped = true
		return true
	}
	return false
}

// disarm records a non-auth outcome, permanently disabling the breaker.
func (br *authBreaker) disarm() {
	br.mu.Lock()
	defer br.mu.Unlock()
	br.disarmed = true
}
