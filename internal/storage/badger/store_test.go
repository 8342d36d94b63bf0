package badger

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/require"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db"), log.Logger{Writer: &log.IOWriter{Writer: io.Discard}})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestVideoMapRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.VideoMap("vid1")
	require.NoError(t, err)
	require.False(t, ok)

	vm := types.VideoMap{
		VideoID:  "vid1",
		Duration: 3600,
		Chapters: []types.Chapter{{Start: 0, End: 3600, Title: "markets"}},
		Claims:   []types.Claim{{Text: "rates stay flat", Start: 100, End: 130, Pattern: types.PatternPrediction}},
	}
	require.NoError(t, s.PutVideoMap(vm))

	got, ok, err := s.VideoMap("vid1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, vm, got)

	require.Error(t, s.PutVideoMap(types.VideoMap{}))
}

func TestProcessedState(t *testing.T) {
	s := openTestStore(t)

	ok, err := s.Processed("vid1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.MarkProcessed("vid1"))

	ok, err = s.Processed("vid1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestClipsUpsertAndDelete(t *testing.T) {
	s := openTestStore(t)

	a := types.SelectedClip{VideoID: "vid1", Start: 120, End: 165, Score: 8.1}
	b := types.SelectedClip{VideoID: "vid2", Start: 700, End: 760, Score: 7.4}
	require.NoError(t, s.PutClips([]types.SelectedClip{a, b}))

	// Same key again is an update, not a duplicate.
	a.Score = 8.5
	require.NoError(t, s.PutClips([]types.SelectedClip{a}))

	clips, err := s.Clips()
	require.NoError(t, err)
	require.Len(t, clips, 2)

	require.NoError(t, s.DeleteClip(a.Key()))
	require.NoError(t, s.DeleteClip(a.Key()))

	clips, err = s.Clips()
	require.NoError(t, err)
	require.Len(t, clips, 1)
	require.Equal(t, "vid2", clips[0].VideoID)
}

func TestPutBatch(t *testing.T) {
	s := openTestStore(t)

	require.Error(t, s.PutBatch(types.Batch{}))
	require.NoError(t, s.PutBatch(types.Batch{
		ID:       "batch-1",
		Metadata: types.BatchMetadata{GeneratedAt: "2026-08-29T12:00:00Z", TotalClips: 1, Channels: []string{"MacroVoices"}},
		Clips:    []types.SelectedClip{{VideoID: "vid1", Start: 120, End: 165}},
	}))
}
