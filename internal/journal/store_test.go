// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/webp2png/pkg/types"
)

func openTestStore(t *testing.T, maxResults int) *Store {
	t.Helper()
	s, err := Open(types.JournalConfig{
		Path:       filepath.Join(t.TempDir(), "state", "journal.db"),
		MaxResults: maxResults,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleFiles(at time.Time) []types.FileResult {
	return []types.FileResult{
		{
			Source: "img/a.webp", Destination: "img/a.png", Status: types.ConversionDone,
			SourceBytes: 1200, OutputBytes: 4800, Width: 40, Height: 30,
			HadAlpha: true, Deleted: true, ConvertedAt: at,
		},
		{
			Source: "img/b.webp", Destination: "img/b.png", Status: types.ConversionFailed,
			Error: "invalid webp image: decoding webp: bad header", ConvertedAt: at.Add(time.Second),
		},
		{
			Source: "img/c.webp", Destination: "img/c.png", Status: types.ConversionSkipped,
			Warnings: []string{"optimizer oxipng failed"}, ConvertedAt: at.Add(2 * time.Second),
		},
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(types.JournalConfig{})
	require.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(types.JournalConfig{Path: path})
	require.NoError(t, err)
	_, err = s.Record(context.Background(), "img", sampleFiles(time.Now()))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(types.JournalConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "schema creation should keep existing rows")
}

func TestRecordAndRuns(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := s.Record(ctx, "img", sampleFiles(at))
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err, "run ID should be a UUID")

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "img", runs[0].Input)
	assert.Equal(t, 1, runs[0].Converted)
	assert.Equal(t, 1, runs[0].Skipped)
	assert.Equal(t, 1, runs[0].Failed)
	assert.True(t, runs[0].StartedAt.Equal(at), "run start should be the earliest file time")
}

func TestRecent(t *testing.T) {
	s := openTestStore(t, 2)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := s.Record(ctx, "img", sampleFiles(at))
	require.NoError(t, err)

	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2, "limit should fall back to MaxResults")
	assert.Equal(t, "img/c.webp", entries[0].Source, "newest first")
	assert.Equal(t, []string{"optimizer oxipng failed"}, entries[0].Warnings)
	assert.Equal(t, types.ConversionFailed, entries[1].Status)
	assert.Contains(t, entries[1].Error, "bad header")

	all, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	a := all[2]
	assert.Equal(t, id, a.RunID)
	assert.Equal(t, types.ConversionDone, a.Status)
	assert.Equal(t, int64(1200), a.SourceBytes)
	assert.Equal(t, int64(4800), a.OutputBytes)
	assert.Equal(t, 40, a.Width)
	assert.Equal(t, 30, a.Height)
	assert.True(t, a.HadAlpha)
	assert.True(t, a.Deleted)
	assert.Empty(t, a.Warnings)
	assert.True(t, a.ConvertedAt.Equal(at))
}

func TestRecord_EmptyRun(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()

	_, err := s.Record(ctx, "empty-dir", nil)
	require.NoError(t, err)

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Zero(t, runs[0].Converted+runs[0].Skipped+runs[0].Failed)

	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
