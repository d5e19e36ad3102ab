package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicelayer/annotate/domain/work"
	"github.com/voicelayer/annotate/infrastructure/persistence"
	"github.com/voicelayer/annotate/internal/testdb"
)

func seedResults(t *testing.T, store persistence.ResultStore, source string, n int) {
	t.Helper()
	items := make([]work.WorkItem, n)
	results := make([]work.AnnotationResult, n)
	for i := range items {
		items[i] = work.NewWorkItem(i, "a.wav", "text")
		results[i] = work.SuccessResult(i, work.NewAnnotation("s", "i"), 1)
	}
	require.NoError(t, store.SaveAll(context.Background(), source, items, results))
}

func TestResultStore_SaveAllAndFind(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewResultStore(db)
	ctx := context.Background()

	items := []work.WorkItem{
		work.NewWorkItem(0, "a.wav", "power out"),
		work.NewWorkItem(1, "b.wav", "high bill"),
	}
	results := []work.AnnotationResult{
		work.SuccessResult(0, work.NewAnnotation("power complaint", "power cut"), 1),
		work.FailedResult(1, "rate limited, retries exhausted after 4 attempts", 4),
	}

	require.NoError(t, store.SaveAll(ctx, "calls.csv", items, results))

	found, err := store.FindBySource(ctx, "calls.csv")
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, 0, found[0].Index())
	assert.Equal(t, work.StatusSuccess, found[0].Status())
	assert.Equal(t, "power complaint", found[0].Summary())
	assert.Equal(t, "power cut", found[0].Intent())
	assert.Equal(t, 1, found[0].Attempts())

	assert.Equal(t, work.StatusFailed, found[1].Status())
	assert.Equal(t, 4, found[1].Attempts())
	assert.Contains(t, found[1].Error(), "retries exhausted")
}

func TestResultStore_SaveAllUpsertsOnRerun(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewResultStore(db)
	ctx := context.Background()

	items := []work.WorkItem{work.NewWorkItem(0, "a.wav", "text")}
	first := []work.AnnotationResult{work.FailedResult(0, "boom", 1)}
	require.NoError(t, store.SaveAll(ctx, "calls.csv", items, first))

	second := []work.AnnotationResult{work.SuccessResult(0, work.NewAnnotation("s", "i"), 2)}
	require.NoError(t, store.SaveAll(ctx, "calls.csv", items, second))

	count, err := store.Count(ctx, "calls.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "rerun overwrites instead of duplicating")

	found, err := store.FindBySource(ctx, "calls.csv")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, work.StatusSuccess, found[0].Status())
	assert.Equal(t, 2, found[0].Attempts())
}

func TestResultStore_CountIsPerSource(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewResultStore(db)
	ctx := context.Background()

	seedResults(t, store, "first.csv", 3)
	seedResults(t, store, "second.csv", 5)

	count, err := store.Count(ctx, "first.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = store.Count(ctx, "second.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	count, err = store.Count(ctx, "absent.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestResultStore_NextIndex(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewResultStore(db)
	ctx := context.Background()

	next, err := store.NextIndex(ctx, "calls.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, next, "empty store starts from the beginning")

	seedResults(t, store, "calls.csv", 4)

	next, err = store.NextIndex(ctx, "calls.csv")
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestResultStore_SaveAllEmpty(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewResultStore(db)

	require.NoError(t, store.SaveAll(context.Background(), "calls.csv", nil, nil))
}

func TestResultStore_SaveAllMismatch(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewResultStore(db)

	items := []work.WorkItem{work.NewWorkItem(0, "a.wav", "text")}
	err := store.SaveAll(context.Background(), "calls.csv", items, nil)
	require.Error(t, err)
}
