package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/flowdag/flowdag/store"
)

func TestRedisRunStore(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	runs := NewRedisRunStore(RedisOptions{
		Addr: mr.Addr(),
	})
	defer runs.Close()

	ctx := context.Background()

	rec := &store.RunRecord{
		ID:            "run-1",
		Pipeline:      "checkout",
		Success:       true,
		Outputs:       map[string]any{"total": "25"},
		NodesExecuted: []string{"input", "sum"},
		Duration:      42 * time.Millisecond,
		StartedAt:     time.Now(),
	}

	// Save
	err = runs.Save(ctx, rec)
	assert.NoError(t, err)

	// Load
	loaded, err := runs.Load(ctx, "run-1")
	assert.NoError(t, err)
	assert.Equal(t, rec.ID, loaded.ID)
	assert.Equal(t, rec.Pipeline, loaded.Pipeline)
	assert.True(t, loaded.Success)
	assert.Equal(t, []string{"input", "sum"}, loaded.NodesExecuted)
	assert.Equal(t, "25", loaded.Outputs["total"])

	// List
	list, err := runs.List(ctx, "checkout")
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)

	// Delete
	err = runs.Delete(ctx, "run-1")
	assert.NoError(t, err)

	_, err = runs.Load(ctx, "run-1")
	assert.ErrorIs(t, err, store.ErrRunNotFound)

	list, err = runs.List(ctx, "checkout")
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestRedisRunStore_Clear(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	runs := NewRedisRunStore(RedisOptions{Addr: mr.Addr()})
	defer runs.Close()

	ctx := context.Background()

	for _, id := range []string{"run-a", "run-b"} {
		err := runs.Save(ctx, &store.RunRecord{ID: id, Pipeline: "etl", StartedAt: time.Now()})
		assert.NoError(t, err)
	}
	err = runs.Save(ctx, &store.RunRecord{ID: "run-c", Pipeline: "other", StartedAt: time.Now()})
	assert.NoError(t, err)

	err = runs.Clear(ctx, "etl")
	assert.NoError(t, err)

	list, err := runs.List(ctx, "etl")
	assert.NoError(t, err)
	assert.Empty(t, list)

	// Other pipelines are untouched.
	other, err := runs.List(ctx, "other")
	assert.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestRedisRunStore_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	runs := NewRedisRunStore(RedisOptions{Addr: mr.Addr(), TTL: time.Minute})
	defer runs.Close()

	ctx := context.Background()
	err = runs.Save(ctx, &store.RunRecord{ID: "run-ttl", Pipeline: "etl", StartedAt: time.Now()})
	assert.NoError(t, err)

	// Past the TTL the record and its index entry are gone.
	mr.FastForward(2 * time.Minute)

	_, err = runs.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}
