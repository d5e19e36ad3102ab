package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voicelayer/annotate/domain/service"
	"github.com/voicelayer/annotate/domain/work"
)

// resultHeader is the column layout of the output file.
var resultHeader = []string{"audio_name", "transcription", "summary", "intent", "status", "error"}

// CSVWriter appends annotated rows to a CSV file, creating it with a
// header when missing. Appending keeps earlier runs' rows intact so a
// resumed run extends the same output file.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer for the given output path.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the output file path.
func (w *CSVWriter) Path() string { return w.path }

// Write appends one row per result in input order. Items and results
// are aligned positionally.
func (w *CSVWriter) Write(ctx context.Context, items []work.WorkItem, results []work.AnnotationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(items) != len(results) {
		return fmt.Errorf("item/result count mismatch: %d items, %d results", len(items), len(results))
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	writeHeader, err := w.needsHeader()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(resultHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, item := range items {
		r := results[i]
		row := []string{
			item.Identifier(),
			item.Text(),
			r.Summary(),
			r.Intent(),
			r.Status().String(),
			r.Error(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", item.Index(), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush output file: %w", err)
	}
	return nil
}

func (w *CSVWriter) needsHeader() (bool, error) {
	info, err := os.Stat(w.path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat output file: %w", err)
	}
	return info.Size() == 0, nil
}

// Ensure CSVWriter implements service.ResultSink.
var _ service.ResultSink = (*CSVWriter)(nil)
