package buildstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLatestBuildReturnsErrNoBuildWhenEmpty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LatestBuild("timetables/october")
	assert.ErrorIs(t, err, ErrNoBuild)
}

func TestRecordAndFetchLatestBuild(t *testing.T) {
	s := newTestStore(t)

	older := BuildRecord{
		Source:          "timetables/october",
		BlobPath:        "/var/networks/1.riso",
		BlobSHA256:      "aaa",
		BuiltAt:         time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC),
		StopCount:       10,
		ConnectionCount: 100,
	}
	newer := BuildRecord{
		Source:          "timetables/october",
		BlobPath:        "/var/networks/2.riso",
		BlobSHA256:      "bbb",
		BuiltAt:         time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC),
		StopCount:       12,
		ConnectionCount: 120,
	}

	require.NoError(t, s.RecordBuild(older))
	require.NoError(t, s.RecordBuild(newer))

	latest, err := s.LatestBuild("timetables/october")
	require.NoError(t, err)
	assert.Equal(t, "bbb", latest.BlobSHA256)
	assert.Equal(t, 12, latest.StopCount)
}

func TestListBuildsOrdersNewestFirst(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordBuild(BuildRecord{
		Source: "a", BlobSHA256: "1", BuiltAt: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, s.RecordBuild(BuildRecord{
		Source: "a", BlobSHA256: "2", BuiltAt: time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, s.RecordBuild(BuildRecord{
		Source: "a", BlobSHA256: "3", BuiltAt: time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC),
	}))

	builds, err := s.ListBuilds("a")
	require.NoError(t, err)
	require.Len(t, builds, 3)
	assert.Equal(t, "2", builds[0].BlobSHA256)
	assert.Equal(t, "3", builds[1].BlobSHA256)
	assert.Equal(t, "1", builds[2].BlobSHA256)
}

func TestRecordBuildUpsertsSameSourceAndHash(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordBuild(BuildRecord{
		Source: "a", BlobSHA256: "1", BlobPath: "/first", BuiltAt: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, s.RecordBuild(BuildRecord{
		Source: "a", BlobSHA256: "1", BlobPath: "/second", BuiltAt: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	}))

	builds, err := s.ListBuilds("a")
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "/second", builds[0].BlobPath)
}

func TestListBuildsUnknownSourceReturnsEmpty(t *testing.T) {
	s := newTestStore(t)

	builds, err := s.ListBuilds("nothing")
	require.NoError(t, err)
	assert.Empty(t, builds)
}
