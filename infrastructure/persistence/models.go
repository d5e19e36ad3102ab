// Package persistence provides the GORM-backed result store that makes
// bulk runs resumable.
package persistence

import (
	"time"

	"github.com/voicelayer/annotate/domain/work"
)

// ResultModel is the database row for one annotated item.
type ResultModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Source     string `gorm:"index:idx_results_source_item,unique;not null"`
	ItemIndex  int    `gorm:"index:idx_results_source_item,unique;not null"`
	Identifier string
	Text       string
	Summary    string
	Intent     string
	Status     string `gorm:"not null"`
	Error      string
	Attempts   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM.
func (ResultModel) TableName() string { return "annotation_results" }

// ResultMapper converts between domain results and database rows.
type ResultMapper struct{}

// ToDomain converts a row to a domain result.
func (ResultMapper) ToDomain(model ResultModel) work.AnnotationResult {
	return work.NewAnnotationResult(
		model.ItemIndex,
		work.Status(model.Status),
		model.Summary,
		model.Intent,
		model.Error,
		model.Attempts,
	)
}

// ToModel converts an item/result pair to a row.
func (ResultMapper) ToModel(source string, item work.WorkItem, result work.AnnotationResult) ResultModel {
	return ResultModel{
		Source:     source,
		ItemIndex:  result.Index(),
		Identifier: item.Identifier(),
		Text:       item.Text(),
		Summary:    result.Summary(),
		Intent:     result.Intent(),
		Status:     result.Status().String(),
		Error:      result.Error(),
		Attempts:   result.Attempts(),
	}
}
