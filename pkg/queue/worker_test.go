package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"socialpulse/app/models/conversation"
	"socialpulse/pkg/langflow"
	"socialpulse/pkg/redis"
)

type fakeInvoker struct {
	mu      sync.Mutex
	queries []string
	answer  string
	err     error
}

func (f *fakeInvoker) Invoke(_ context.Context, query string, _ langflow.Tweaks) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.answer, f.err
}

func (f *fakeInvoker) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type memoryStore struct {
	mu       sync.Mutex
	messages []*conversation.Message
}

func (s *memoryStore) Create(_ context.Context, messages ...*conversation.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, messages...)
	return nil
}

func (s *memoryStore) all() []*conversation.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*conversation.Message(nil), s.messages...)
}

// runWorker 推送一个任务，等待其结束后关闭工作器
func runWorker(t *testing.T, invoker Invoker, store MessageStore) *ChatTask {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	defer client.Close()

	qs := NewQueueService(redis.NewFromClient(client), Options{Prefix: "test"})
	ctx := context.Background()
	require.NoError(t, qs.PushTask(ctx, &ChatTask{ID: "job-1", SessionID: "s1", Query: "which type wins?"}))

	w := NewWorker(qs, invoker, store, WorkerConfig{WorkerCount: 1, PollTimeout: time.Second})
	w.Start()

	var task *ChatTask
	require.Eventually(t, func() bool {
		got, err := qs.GetTask(ctx, "job-1")
		if err != nil || got == nil || !got.Finished() {
			return false
		}
		task = got
		return true
	}, 5*time.Second, 20*time.Millisecond)

	w.Stop()
	return task
}

func TestWorkerCompletesTask(t *testing.T) {
	invoker := &fakeInvoker{answer: "Reels lead on likes."}
	store := &memoryStore{}

	task := runWorker(t, invoker, store)

	assert.Equal(t, TaskCompleted, task.Status)
	assert.Equal(t, "Reels lead on likes.", task.Result)
	assert.Empty(t, task.ErrorKind)
	assert.Equal(t, 1, invoker.calls())

	messages := store.all()
	require.Len(t, messages, 2)
	assert.Equal(t, conversation.RoleUser, messages[0].Role)
	assert.Equal(t, "which type wins?", messages[0].Content)
	assert.Equal(t, conversation.RoleAssistant, messages[1].Role)
	assert.Equal(t, "job-1", messages[1].JobID)
	assert.False(t, messages[1].IsFailed())
}

func TestWorkerRecordsGatewayFailureWithoutRetry(t *testing.T) {
	invoker := &fakeInvoker{err: &langflow.Error{Kind: langflow.KindServer, StatusCode: 500, Message: langflow.MsgServer}}
	store := &memoryStore{}

	task := runWorker(t, invoker, store)

	assert.Equal(t, TaskFailed, task.Status)
	assert.Equal(t, string(langflow.KindServer), task.ErrorKind)
	assert.Equal(t, langflow.MsgServer, task.Result)
	assert.Equal(t, 1, invoker.calls())

	messages := store.all()
	require.Len(t, messages, 2)
	assert.True(t, messages[1].IsFailed())
	assert.Equal(t, langflow.MsgServer, messages[1].Content)
}

func TestWorkerWithoutStore(t *testing.T) {
	invoker := &fakeInvoker{answer: "ok"}

	task := runWorker(t, invoker, nil)
	assert.Equal(t, TaskCompleted, task.Status)
}
