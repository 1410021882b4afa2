package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/app/models/conversation"
	"socialpulse/pkg/langflow"
	"socialpulse/pkg/queue"
	"socialpulse/pkg/redis"
	"socialpulse/pkg/response"
)

const sessionID = "6f1c1d8e-8f0a-4b5e-9c1a-2d3e4f5a6b7c"

type fakeGateway struct {
	mu      sync.Mutex
	queries []string
	answer  string
	err     error
}

func (f *fakeGateway) Invoke(_ context.Context, query string, _ langflow.Tweaks) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.answer, f.err
}

func (f *fakeGateway) TestConnection(ctx context.Context) error {
	_, err := f.Invoke(ctx, "test", nil)
	return err
}

type fakeHistory struct {
	messages []*conversation.Message
	err      error
}

func (h *fakeHistory) Create(_ context.Context, messages ...*conversation.Message) error {
	if h.err != nil {
		return h.err
	}
	h.messages = append(h.messages, messages...)
	return nil
}

func (h *fakeHistory) GetBySession(_ context.Context, sessionID string, page, pageSize int) ([]conversation.Message, int64, error) {
	var out []conversation.Message
	for _, m := range h.messages {
		if m.SessionID == sessionID {
			out = append(out, *m)
		}
	}
	total := int64(len(out))
	start := (page - 1) * pageSize
	if start > len(out) {
		start = len(out)
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (h *fakeHistory) GetByJobID(_ context.Context, jobID string) ([]conversation.Message, error) {
	var out []conversation.Message
	for _, m := range h.messages {
		if m.JobID == jobID {
			out = append(out, *m)
		}
	}
	return out, h.err
}

func newRouter(cc *ChatController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/chat", cc.Store)
	r.POST("/v1/chat/ping", cc.Ping)
	r.GET("/v1/chat/sessions/:session_id/messages", cc.History)
	r.POST("/v1/chat/jobs", cc.StoreJob)
	r.GET("/v1/chat/jobs/:id", cc.ShowJob)
	return r
}

func request(t *testing.T, r http.Handler, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestStoreReturnsAnswerAndSavesHistory(t *testing.T) {
	gw := &fakeGateway{answer: "Carousels get the most shares."}
	history := &fakeHistory{}
	r := newRouter(NewChatController(gw, langflow.DefaultTweaks(), history, nil))

	code, body := request(t, r, http.MethodPost, "/v1/chat", `{"session_id":"`+sessionID+`","query":"what gets shared?"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, response.Success, body["status"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Carousels get the most shares.", data["answer"])
	assert.Equal(t, sessionID, data["session_id"])

	assert.Equal(t, []string{"what gets shared?"}, gw.queries)
	require.Len(t, history.messages, 2)
	assert.Equal(t, conversation.RoleUser, history.messages[0].Role)
	assert.Equal(t, conversation.RoleAssistant, history.messages[1].Role)
	assert.False(t, history.messages[1].IsFailed())
}

func TestStoreGeneratesSessionID(t *testing.T) {
	r := newRouter(NewChatController(&fakeGateway{answer: "ok"}, nil, nil, nil))

	code, body := request(t, r, http.MethodPost, "/v1/chat", `{"query":"hi"}`)

	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["session_id"], 36)
}

func TestStoreMapsGatewayFailures(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&langflow.Error{Kind: langflow.KindConfiguration, Message: langflow.MsgConfiguration}, http.StatusServiceUnavailable},
		{&langflow.Error{Kind: langflow.KindTimeout, Message: langflow.MsgTimeout}, http.StatusGatewayTimeout},
		{&langflow.Error{Kind: langflow.KindServer, StatusCode: 500, Message: langflow.MsgServer}, http.StatusBadGateway},
		{&langflow.Error{Kind: langflow.KindAuthentication, StatusCode: 401, Message: langflow.MsgAuthentication}, http.StatusBadGateway},
		{&langflow.Error{Kind: langflow.KindMalformedResponse, Message: langflow.MsgMalformedResponse}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		kind := langflow.KindOf(tc.err)
		t.Run(string(kind), func(t *testing.T) {
			history := &fakeHistory{}
			r := newRouter(NewChatController(&fakeGateway{err: tc.err}, nil, history, nil))

			code, body := request(t, r, http.MethodPost, "/v1/chat", `{"query":"hi"}`)

			assert.Equal(t, tc.status, code)
			assert.Equal(t, response.Error, body["status"])
			assert.Equal(t, string(kind), body["error"])
			assert.Equal(t, langflow.UserMessage(tc.err), body["message"])

			require.Len(t, history.messages, 2)
			assert.Equal(t, string(kind), history.messages[1].ErrorKind)
			assert.Equal(t, langflow.UserMessage(tc.err), history.messages[1].Content)
		})
	}
}

func TestStoreIgnoresHistoryFailure(t *testing.T) {
	history := &fakeHistory{err: errors.New("disk full")}
	r := newRouter(NewChatController(&fakeGateway{answer: "ok"}, nil, history, nil))

	code, _ := request(t, r, http.MethodPost, "/v1/chat", `{"query":"hi"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestStoreRejectsInvalidRequest(t *testing.T) {
	gw := &fakeGateway{answer: "ok"}
	r := newRouter(NewChatController(gw, nil, nil, nil))

	code, body := request(t, r, http.MethodPost, "/v1/chat", `{"query":""}`)

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, response.Error, body["status"])
	assert.Empty(t, gw.queries)
}

func TestPing(t *testing.T) {
	gw := &fakeGateway{answer: "pong"}
	r := newRouter(NewChatController(gw, nil, nil, nil))

	code, body := request(t, r, http.MethodPost, "/v1/chat/ping", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["data"].(map[string]interface{})["connected"])
	assert.Equal(t, []string{"test"}, gw.queries)

	gw.err = &langflow.Error{Kind: langflow.KindNotFound, StatusCode: 404, Message: langflow.MsgNotFound}
	code, body = request(t, r, http.MethodPost, "/v1/chat/ping", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "not_found", body["error"])
}

func TestHistory(t *testing.T) {
	history := &fakeHistory{}
	for i := 0; i < 3; i++ {
		history.messages = append(history.messages, conversation.NewUserMessage(sessionID, "q"))
	}
	r := newRouter(NewChatController(&fakeGateway{}, nil, history, nil))

	code, body := request(t, r, http.MethodGet, "/v1/chat/sessions/"+sessionID+"/messages?page=2&page_size=2", "")
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["messages"], 1)
	assert.EqualValues(t, 3, data["pagination"].(map[string]interface{})["total"])

	code, _ = request(t, r, http.MethodGet, "/v1/chat/sessions/not-a-uuid/messages", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHistoryDisabled(t *testing.T) {
	r := newRouter(NewChatController(&fakeGateway{}, nil, nil, nil))

	code, _ := request(t, r, http.MethodGet, "/v1/chat/sessions/"+sessionID+"/messages", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestJobsDisabledWithoutQueue(t *testing.T) {
	r := newRouter(NewChatController(&fakeGateway{}, nil, nil, nil))

	code, _ := request(t, r, http.MethodPost, "/v1/chat/jobs", `{"query":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = request(t, r, http.MethodGet, "/v1/chat/jobs/abc", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestJobs(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	qs := queue.NewQueueService(redis.NewFromClient(client), queue.Options{Prefix: "test"})

	gw := &fakeGateway{answer: "ok"}
	r := newRouter(NewChatController(gw, nil, nil, qs))

	code, body := request(t, r, http.MethodPost, "/v1/chat/jobs", `{"query":"hi"}`)
	require.Equal(t, http.StatusAccepted, code)
	jobID := body["data"].(map[string]interface{})["job_id"].(string)
	assert.Equal(t, string(queue.TaskPending), body["data"].(map[string]interface{})["status"])

	code, body = request(t, r, http.MethodGet, "/v1/chat/jobs/"+jobID, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hi", body["data"].(map[string]interface{})["query"])

	code, _ = request(t, r, http.MethodGet, "/v1/chat/jobs/missing", "")
	assert.Equal(t, http.StatusNotFound, code)

	// 入队时不调用网关
	assert.Empty(t, gw.queries)
}

func TestShowJobIncludesMessagesWhenFinished(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	qs := queue.NewQueueService(redis.NewFromClient(client), queue.Options{Prefix: "test"})

	history := &fakeHistory{}
	r := newRouter(NewChatController(&fakeGateway{}, nil, history, qs))

	code, body := request(t, r, http.MethodPost, "/v1/chat/jobs", `{"query":"best day?"}`)
	require.Equal(t, http.StatusAccepted, code)
	jobID := body["data"].(map[string]interface{})["job_id"].(string)

	// 未完成时不返回消息
	code, body = request(t, r, http.MethodGet, "/v1/chat/jobs/"+jobID, "")
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, body["data"], "messages")

	ctx := context.Background()
	task, err := qs.GetTask(ctx, jobID)
	require.NoError(t, err)
	task.Status = queue.TaskCompleted
	task.Result = "Friday"
	require.NoError(t, qs.SaveTask(ctx, task))

	question := conversation.NewUserMessage(task.SessionID, "best day?")
	question.JobID = jobID
	answer := conversation.NewAssistantMessage(task.SessionID, "Friday", "")
	answer.JobID = jobID
	require.NoError(t, history.Create(ctx, question, answer))

	code, body = request(t, r, http.MethodGet, "/v1/chat/jobs/"+jobID, "")
	require.Equal(t, http.StatusOK, code)
	d := body["data"].(map[string]interface{})
	assert.Equal(t, "completed", d["status"])
	assert.Equal(t, "Friday", d["result"])
	messages := d["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "Friday", messages[1].(map[string]interface{})["content"])
}

func TestStoreJobRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	qs := queue.NewQueueService(redis.NewFromClient(client), queue.Options{
		Prefix:    "test",
		RateLimit: 0.001,
		RateBurst: 1,
	})

	r := newRouter(NewChatController(&fakeGateway{}, nil, nil, qs))

	code, _ := request(t, r, http.MethodPost, "/v1/chat/jobs", `{"query":"one"}`)
	assert.Equal(t, http.StatusAccepted, code)
	code, _ = request(t, r, http.MethodPost, "/v1/chat/jobs", `{"query":"two"}`)
	assert.Equal(t, http.StatusTooManyRequests, code)

	length, err := qs.Length(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, length)
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusForKind(""))
	assert.Equal(t, http.StatusBadGateway, StatusForKind(langflow.KindUnexpectedStatus))
	assert.Equal(t, http.StatusBadGateway, StatusForKind(langflow.KindConnection))
}
