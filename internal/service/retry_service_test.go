package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhoang/assessforms/internal/queue"
)

func TestDrainOnceEmptyQueue(t *testing.T) {
	pending, err := queue.OpenInMemory(0)
	require.NoError(t, err)
	t.Cleanup(func() { pending.Close() })

	committer := &fakeCommitter{}
	summary, err := NewRetryService(pending, committer).DrainOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, summary.Remaining)
	assert.Zero(t, committer.calls)
}

func TestDrainOnceIsolatesFailures(t *testing.T) {
	pending, err := queue.OpenInMemory(0)
	require.NoError(t, err)
	t.Cleanup(func() { pending.Close() })

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, pending.Enqueue("form-1", map[string]any{"name": name}))
	}

	// The second entry keeps failing; the others go through.
	committer := &fakeCommitter{failIndex: map[int]error{1: errors.New("backend unavailable")}}
	summary, err := NewRetryService(pending, committer).DrainOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Remaining)

	// The failed entry is still queued, in its place, unchanged.
	entries, err := pending.ListAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].Record["name"])

	// A later pass with a healthy backend finishes the job.
	committer.failIndex = nil
	summary, err = NewRetryService(pending, committer).DrainOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 0, summary.Remaining)
}

func TestDrainOnceDeliversInOrder(t *testing.T) {
	pending, err := queue.OpenInMemory(0)
	require.NoError(t, err)
	t.Cleanup(func() { pending.Close() })

	for i := 0; i < 3; i++ {
		require.NoError(t, pending.Enqueue("form-1", map[string]any{"i": float64(i)}))
	}

	committer := &fakeCommitter{}
	summary, err := NewRetryService(pending, committer).DrainOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Successful)

	require.Len(t, committer.committed, 3)
	for i, record := range committer.committed {
		assert.Equal(t, float64(i), record["i"])
	}
}
