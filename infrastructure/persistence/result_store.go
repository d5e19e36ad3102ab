package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/voicelayer/annotate/domain/work"
	"github.com/voicelayer/annotate/internal/database"
)

// ResultStore implements work.ResultStore using GORM.
type ResultStore struct {
	db     database.Database
	mapper ResultMapper
}

// NewResultStore creates a new ResultStore.
func NewResultStore(db database.Database) ResultStore {
	return ResultStore{db: db}
}

// AutoMigrate creates or updates the results table.
func AutoMigrate(db database.Database) error {
	if err := db.Session(context.Background()).AutoMigrate(&ResultModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SaveAll persists results for the given items. A rerun of the same
// (source, index) pair overwrites the earlier row, so retried runs
// converge on the latest outcome.
func (s ResultStore) SaveAll(ctx context.Context, source string, items []work.WorkItem, results []work.AnnotationResult) error {
	if len(items) != len(results) {
		return fmt.Errorf("item/result count mismatch: %d items, %d results", len(items), len(results))
	}
	if len(items) == 0 {
		return nil
	}

	now := time.Now()
	models := make([]ResultModel, len(items))
	for i, item := range items {
		m := s.mapper.ToModel(source, item, results[i])
		m.CreatedAt = now
		m.UpdatedAt = now
		models[i] = m
	}

	result := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source"}, {Name: "item_index"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"identifier", "text", "summary", "intent", "status", "error", "attempts", "updated_at",
		}),
	}).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("save results: %w", result.Error)
	}
	return nil
}

// Count returns the number of stored results for the source.
func (s ResultStore) Count(ctx context.Context, source string) (int64, error) {
	var count int64
	result := s.db.Session(ctx).Model(&ResultModel{}).Where("source = ?", source).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("count results: %w", result.Error)
	}
	return count, nil
}

// NextIndex returns the index after the highest stored item index for
// the source, or 0 when nothing is stored yet.
func (s ResultStore) NextIndex(ctx context.Context, source string) (int, error) {
	var max *int
	result := s.db.Session(ctx).Model(&ResultModel{}).
		Where("source = ?", source).
		Select("MAX(item_index)").
		Scan(&max)
	if result.Error != nil {
		return 0, fmt.Errorf("find max item index: %w", result.Error)
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// FindBySource returns the stored results for a source in index order.
func (s ResultStore) FindBySource(ctx context.Context, source string) ([]work.AnnotationResult, error) {
	var models []ResultModel
	result := s.db.Session(ctx).
		Where("source = ?", source).
		Order("item_index ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("find results: %w", result.Error)
	}

	results := make([]work.AnnotationResult, len(models))
	for i, m := range models {
		results[i] = s.mapper.ToDomain(m)
	}
	return results, nil
}

// Ensure ResultStore implements work.ResultStore.
var _ work.ResultStore = ResultStore{}
