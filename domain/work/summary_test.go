package work

import (
	"testing"
	"time"
)

func TestRunSummary_Counts(t *testing.T) {
	results := []AnnotationResult{
		SuccessResult(0, NewAnnotation("s", "i"), 1),
		SuccessResult(1, NewAnnotation("s", "i"), 2),
		FailedResult(2, "boom", 4),
		FailedResult(3, "empty transcription", 0),
		UnattemptedResult(4, "aborted"),
	}

	s := NewRunSummary(results, 2*time.Second)

	if s.Total() != 5 {
		t.Errorf("Total = %d, want 5", s.Total())
	}
	if s.Succeeded() != 2 {
		t.Errorf("Succeeded = %d, want 2", s.Succeeded())
	}
	if s.Failed() != 2 {
		t.Errorf("Failed = %d, want 2", s.Failed())
	}
	if s.Skipped() != 1 {
		t.Errorf("Skipped = %d, want 1", s.Skipped())
	}
	if s.Unattempted() != 1 {
		t.Errorf("Unattempted = %d, want 1", s.Unattempted())
	}
	if got := s.Rate(); got != 2.5 {
		t.Errorf("Rate = %f, want 2.5", got)
	}
}

func TestRunSummary_ZeroElapsed(t *testing.T) {
	s := NewRunSummary(nil, 0)
	if s.Rate() != 0 {
		t.Errorf("Rate = %f, want 0", s.Rate())
	}
}
