package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calls.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleSource = `audio_name,transcription
call_000.wav,power is out since morning
call_001.wav,"bill amount, too high"
call_002.wav,
call_003.wav,new connection please
`

func TestCSVSource_ReadAll(t *testing.T) {
	source := NewCSVSource(writeSourceFile(t, sampleSource))

	items, err := source.Read(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, 0, items[0].Index())
	assert.Equal(t, "call_000.wav", items[0].Identifier())
	assert.Equal(t, "power is out since morning", items[0].Text())

	assert.Equal(t, "bill amount, too high", items[1].Text(), "quoted commas survive")
	assert.Equal(t, "", items[2].Text(), "empty transcriptions become empty items")
}

func TestCSVSource_LimitAndOffset(t *testing.T) {
	source := NewCSVSource(writeSourceFile(t, sampleSource))

	items, err := source.Read(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Indexes are absolute positions in the file, not slice positions.
	assert.Equal(t, 1, items[0].Index())
	assert.Equal(t, "call_001.wav", items[0].Identifier())
	assert.Equal(t, 2, items[1].Index())
}

func TestCSVSource_OffsetBeyondEnd(t *testing.T) {
	source := NewCSVSource(writeSourceFile(t, sampleSource))

	items, err := source.Read(context.Background(), 0, 100)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCSVSource_Count(t *testing.T) {
	source := NewCSVSource(writeSourceFile(t, sampleSource))

	count, err := source.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestCSVSource_CustomColumns(t *testing.T) {
	source := NewCSVSource(writeSourceFile(t, "id,lang,name,text\n1,hi,a.wav,hello\n")).
		WithColumns(2, 3)

	items, err := source.Read(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a.wav", items[0].Identifier())
	assert.Equal(t, "hello", items[0].Text())
}

func TestCSVSource_ShortRows(t *testing.T) {
	source := NewCSVSource(writeSourceFile(t, "audio_name,transcription\nonly_name.wav\n"))

	items, err := source.Read(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "only_name.wav", items[0].Identifier())
	assert.Equal(t, "", items[0].Text())
}

func TestCSVSource_MissingFile(t *testing.T) {
	source := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"))

	_, err := source.Read(context.Background(), 0, 0)
	require.Error(t, err)

	_, err = source.Count(context.Background())
	require.Error(t, err)
}

func TestCSVSource_HeaderOnly(t *testing.T) {
	source := NewCSVSource(writeSourceFile(t, "audio_name,transcription\n"))

	items, err := source.Read(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	count, err := source.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
