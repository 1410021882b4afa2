package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/pkg/redis"
)

func newTestQueue(t *testing.T) (*QueueService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewQueueService(redis.NewFromClient(client), Options{Prefix: "test"}), mr
}

func TestPushAndPopTask(t *testing.T) {
	qs, mr := newTestQueue(t)
	ctx := context.Background()

	task := &ChatTask{ID: "job-1", SessionID: "s1", Query: "top posts?", CreatedAt: time.Now()}
	require.NoError(t, qs.PushTask(ctx, task))

	assert.True(t, mr.Exists("test:task:job-1"))
	length, err := qs.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, length)

	stored, err := qs.GetTask(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, TaskPending, stored.Status)
	assert.Equal(t, "top posts?", stored.Query)

	popped, err := qs.PopTask(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, popped)
	assert.Equal(t, "job-1", popped.ID)

	length, err = qs.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, length)

	snap := qs.Metrics().Snapshot()
	assert.EqualValues(t, 1, snap.Pushed)
	assert.EqualValues(t, 1, snap.PeakQueueLength)
}

func TestPopTaskTimesOutOnEmptyQueue(t *testing.T) {
	qs, _ := newTestQueue(t)

	task, err := qs.PopTask(context.Background(), time.Second)
	assert.NoError(t, err)
	assert.Nil(t, task)
}

func TestGetTaskMissing(t *testing.T) {
	qs, _ := newTestQueue(t)

	task, err := qs.GetTask(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, task)
}

func TestSaveTaskUpdatesRecord(t *testing.T) {
	qs, mr := newTestQueue(t)
	ctx := context.Background()

	task := &ChatTask{ID: "job-2", SessionID: "s1", Query: "q"}
	require.NoError(t, qs.PushTask(ctx, task))

	task.Status = TaskCompleted
	task.Result = "done"
	require.NoError(t, qs.SaveTask(ctx, task))

	stored, err := qs.GetTask(ctx, "job-2")
	require.NoError(t, err)
	assert.True(t, stored.Finished())
	assert.Equal(t, "done", stored.Result)
	assert.Greater(t, mr.TTL("test:task:job-2"), time.Duration(0))
}

func TestPing(t *testing.T) {
	qs, mr := newTestQueue(t)
	assert.NoError(t, qs.Ping(context.Background()))

	mr.Close()
	assert.Error(t, qs.Ping(context.Background()))
}

func TestPushTaskRejectsOverRate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	qs := NewQueueService(redis.NewFromClient(client), Options{Prefix: "test", RateLimit: 0.001, RateBurst: 2})
	ctx := context.Background()

	require.NoError(t, qs.PushTask(ctx, &ChatTask{ID: "a", SessionID: "s", Query: "q"}))
	require.NoError(t, qs.PushTask(ctx, &ChatTask{ID: "b", SessionID: "s", Query: "q"}))

	start := time.Now()
	err := qs.PushTask(ctx, &ChatTask{ID: "c", SessionID: "s", Query: "q"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Less(t, time.Since(start), time.Second)

	length, err := qs.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, length)
	assert.False(t, mr.Exists("test:task:c"))
}
