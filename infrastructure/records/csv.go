// Package records reads transcription records from CSV exports and
// writes annotated rows back out. The expected layout matches the
// spreadsheet the transcription pipeline produces: a header row, an
// audio name column, and a transcription column.
package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/voicelayer/annotate/domain/service"
	"github.com/voicelayer/annotate/domain/work"
)

// Default column positions (0-based) in the source file.
const (
	DefaultNameColumn = 0
	DefaultTextColumn = 1
)

// CSVSource reads work items from a CSV file with a header row.
type CSVSource struct {
	path       string
	nameColumn int
	textColumn int
}

// NewCSVSource creates a source for the given file using the default
// column layout.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{
		path:       path,
		nameColumn: DefaultNameColumn,
		textColumn: DefaultTextColumn,
	}
}

// WithColumns sets the 0-based audio name and transcription columns.
func (s *CSVSource) WithColumns(name, text int) *CSVSource {
	if name >= 0 {
		s.nameColumn = name
	}
	if text >= 0 {
		s.textColumn = text
	}
	return s
}

// Path returns the source file path.
func (s *CSVSource) Path() string { return s.path }

// Read returns up to limit items starting at offset, skipping the
// header row. Item indexes are absolute record positions so resumed
// runs line up with previously stored results.
func (s *CSVSource) Read(ctx context.Context, limit, offset int) ([]work.WorkItem, error) {
	rows, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return nil, nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	items := make([]work.WorkItem, len(rows))
	for i, row := range rows {
		items[i] = work.NewWorkItem(offset+i, s.field(row, s.nameColumn), s.field(row, s.textColumn))
	}
	return items, nil
}

// Count returns the number of records in the file, excluding the header.
func (s *CSVSource) Count(ctx context.Context) (int, error) {
	rows, err := s.readAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *CSVSource) readAll(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	// Transcriptions may contain stray quotes and commas; be lenient.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	// Drop the header row.
	return rows[1:], nil
}

func (s *CSVSource) field(row []string, column int) string {
	if column < len(row) {
		return row[column]
	}
	return ""
}

// Ensure CSVSource implements service.RecordSource.
var _ service.RecordSource = (*CSVSource)(nil)
