package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutBlob_DedupByContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.PutBlob(ctx, []byte("#!/bin/sh\necho hi"))
	require.NoError(t, err)

	id2, err := s.PutBlob(ctx, []byte("#!/bin/sh\necho hi"))
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "identical content should reuse the id")

	count, err := s.CountBlobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPutBlob_DistinctContentDistinctIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	contents := [][]byte{
		[]byte("one"),
		[]byte("two"),
		[]byte("three"),
	}
	ids := map[int64]bool{}
	for _, body := range contents {
		id, err := s.PutBlob(ctx, body)
		require.NoError(t, err)
		ids[id] = true
	}
	assert.Len(t, ids, len(contents))

	count, err := s.CountBlobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(contents)), count, "count grows by one per distinct content")
}

func TestFetchBlob_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	body := []byte{0x00, 0xff, 0x7f, 0x01}
	id, err := s.PutBlob(ctx, body)
	require.NoError(t, err)

	got, err := s.FetchBlob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestFetchBlob_NeverAllocated(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FetchBlob(context.Background(), 42)
	assert.True(t, IsNotFound(err), "expected not-found, got %v", err)
}

func TestOverwriteBlob_MutatesInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.PutBlob(ctx, []byte("before"))
	require.NoError(t, err)

	require.NoError(t, s.OverwriteBlob(ctx, id, []byte("after")))

	got, err := s.FetchBlob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), got)

	count, err := s.CountBlobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "overwrite must not allocate a new row")
}

func TestOverwriteBlob_RehashesContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.PutBlob(ctx, []byte("original"))
	require.NoError(t, err)
	require.NoError(t, s.OverwriteBlob(ctx, id, []byte("replaced")))

	// A put of the new content must dedup against the overwritten row.
	again, err := s.PutBlob(ctx, []byte("replaced"))
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestOverwriteBlob_Missing(t *testing.T) {
	s := newTestStore(t)

	err := s.OverwriteBlob(context.Background(), 7, []byte("x"))
	assert.True(t, IsNotFound(err))
}

func TestTombstoneBlob_ReadsBackAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.PutBlob(ctx, []byte("doomed"))
	require.NoError(t, err)

	require.NoError(t, s.TombstoneBlob(ctx, id))

	_, err = s.FetchBlob(ctx, id)
	assert.True(t, IsNotFound(err), "tombstoned blob should read as absent")

	tombstoned, err := s.IsBlobTombstoned(ctx, id)
	require.NoError(t, err)
	assert.True(t, tombstoned)

	// The row id stays allocated.
	count, err := s.CountBlobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPutBlob_TombstonedContentGetsFreshRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.PutBlob(ctx, []byte("content"))
	require.NoError(t, err)
	require.NoError(t, s.TombstoneBlob(ctx, id))

	fresh, err := s.PutBlob(ctx, []byte("content"))
	require.NoError(t, err)
	assert.NotEqual(t, id, fresh, "tombstones are never resurrected")
}

func TestIsBlobTombstoned_LiveBlob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.PutBlob(ctx, []byte("alive"))
	require.NoError(t, err)

	tombstoned, err := s.IsBlobTombstoned(ctx, id)
	require.NoError(t, err)
	assert.False(t, tombstoned)
}

func TestPutBlob_EmptyContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.PutBlob(ctx, []byte{})
	require.NoError(t, err)

	got, err := s.FetchBlob(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got)
}
