package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wtldr/model"
	"wtldr/provider/testutil"
	"wtldr/tldr"
)

type recordingSummarizer struct {
	mu    sync.Mutex
	calls []*tldr.Request
	resp  tldr.Response
}

func (r *recordingSummarizer) Run(_ context.Context, inv tldr.Invocation) tldr.Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv.(*tldr.Request))
	return r.resp
}

type fakeLog struct {
	inserted  []model.StoredMessage
	insertErr error
}

func (f *fakeLog) Insert(_ context.Context, msgs ...model.StoredMessage) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, msgs...)
	return len(msgs), nil
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestSummarizeReturnsReply(t *testing.T) {
	reply := tldr.Compose(10, "alice 和 bob 讨论了 <b>", false)
	sum := &recordingSummarizer{resp: tldr.Response{Reply: &reply}}
	router := NewRouter(NewHandler(sum, &fakeLog{}))

	w := do(t, router, http.MethodPost, "/v1/tldr",
		`{"platform":"onebot","guild_id":"g1","count":10,"user":"onebot:10001","instruction":"谁最活跃"}`)

	require.Equal(t, http.StatusOK, w.Code)
	got := decode[TLDRResponse](t, w)
	assert.Equal(t, "已为您总结最近 10 条消息", got.Status)
	assert.Equal(t, "alice 和 bob 讨论了 <b>", got.Summary)
	assert.Equal(t, reply.Markup(), got.Markup)
	assert.Empty(t, got.Text)

	require.Len(t, sum.calls, 1)
	inv := sum.calls[0]
	n, ok := inv.Count()
	assert.True(t, ok)
	assert.Equal(t, 10, n)
	assert.Equal(t, "onebot:10001", inv.UserArg())
	assert.Equal(t, "谁最活跃", inv.Instruction())
}

func TestSummarizeReturnsTextLine(t *testing.T) {
	sum := &recordingSummarizer{resp: tldr.Response{Text: "最大获取消息数量为 512 条"}}
	router := NewRouter(NewHandler(sum, &fakeLog{}))

	w := do(t, router, http.MethodPost, "/v1/tldr", `{"platform":"onebot","guild_id":"g1","count":1000}`)

	require.Equal(t, http.StatusOK, w.Code)
	got := decode[TLDRResponse](t, w)
	assert.Equal(t, "最大获取消息数量为 512 条", got.Text)
	assert.Empty(t, got.Markup)
}

func TestSummarizeBadRequests(t *testing.T) {
	router := NewRouter(NewHandler(&recordingSummarizer{}, &fakeLog{}))

	for _, body := range []string{`{not json`, `{"guild_id":"g1"}`} {
		w := do(t, router, http.MethodPost, "/v1/tldr", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, http.StatusBadRequest, decode[ErrorResponse](t, w).Code)
	}
}

func TestSummarizePassesAnchorThrough(t *testing.T) {
	sum := &recordingSummarizer{resp: tldr.Response{Text: "ok"}}
	router := NewRouter(NewHandler(sum, &fakeLog{}))

	w := do(t, router, http.MethodPost, "/v1/tldr", `{"platform":"onebot","guild_id":"g1","anchor_message_id":"m001","user":"10002"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sum.calls, 1)
	assert.Equal(t, "m001", sum.calls[0].AnchorMessageID())
	assert.Equal(t, "10002", sum.calls[0].UserArg())
}

// countingStore is a message store that records every read.
type countingStore struct {
	mu       sync.Mutex
	messages []model.StoredMessage
	lookups  int
	queries  int
}

func (s *countingStore) GetMessage(_ context.Context, id string) (model.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	for _, m := range s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return model.StoredMessage{}, model.ErrMessageNotFound
}

func (s *countingStore) QueryMessages(_ context.Context, c model.SelectionCriteria) ([]model.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	var out []model.StoredMessage
	for i := len(s.messages) - 1; i >= 0 && len(out) < c.Limit; i-- {
		m := s.messages[i]
		if m.GuildID != c.GuildID || (c.MinTimestamp != nil && m.Timestamp.Before(*c.MinTimestamp)) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *countingStore) Insert(_ context.Context, msgs ...model.StoredMessage) (int, error) {
	return len(msgs), nil
}

func newPipelineRouter(t *testing.T, opts tldr.Options, store *countingStore) http.Handler {
	t.Helper()
	opts.DefaultCount, opts.MaxCount, opts.Prompt = 64, 512, "总结："
	pipeline, err := tldr.New(opts, store, testutil.Returning("摘要"), zerolog.Nop())
	require.NoError(t, err)
	return NewRouter(NewHandler(pipeline, store))
}

func TestSummarizeRejectsBeforeAnyLookup(t *testing.T) {
	tests := []struct {
		name string
		opts tldr.Options
		body string
		want string
	}{
		{
			"count over max",
			tldr.Options{},
			`{"platform":"onebot","guild_id":"g1","count":1000,"anchor_message_id":"missing"}`,
			"最大获取消息数量为 512 条",
		},
		{
			"guild disabled",
			tldr.Options{EnabledGuilds: []string{"other"}},
			`{"platform":"onebot","guild_id":"g1","count":1000,"anchor_message_id":"missing"}`,
			tldr.MsgGuildDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &countingStore{messages: testutil.GroupMessages("onebot", "g1", 3)}
			w := do(t, newPipelineRouter(t, tt.opts, store), http.MethodPost, "/v1/tldr", tt.body)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, decode[TLDRResponse](t, w).Text)
			assert.Zero(t, store.lookups)
			assert.Zero(t, store.queries)
		})
	}
}

func TestSummarizeAnchorThroughPipeline(t *testing.T) {
	store := &countingStore{messages: testutil.GroupMessages("onebot", "g1", 4)}
	router := newPipelineRouter(t, tldr.Options{}, store)

	w := do(t, router, http.MethodPost, "/v1/tldr", `{"platform":"onebot","guild_id":"g1","anchor_message_id":"m002"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "已为您总结从所选消息开始的 2 条消息", decode[TLDRResponse](t, w).Status)

	w = do(t, router, http.MethodPost, "/v1/tldr", `{"platform":"onebot","guild_id":"g1","anchor_message_id":"missing"}`)
	assert.Equal(t, tldr.MsgAnchorNotFound, decode[TLDRResponse](t, w).Text)
	assert.Equal(t, 2, store.lookups)
	assert.Equal(t, 1, store.queries)
}

func TestIngest(t *testing.T) {
	store := &fakeLog{}
	router := NewRouter(NewHandler(&recordingSummarizer{}, store))

	w := do(t, router, http.MethodPost, "/v1/messages", `{"messages":[
		{"id":"a","platform":"onebot","guild_id":"g1","user_id":"u1","username":"alice","content":"hi","timestamp":"2025-05-01T10:00:00Z"},
		{"platform":"onebot","guild_id":"g1","user_id":"u2","username":"bob","content":"yo"}
	]}`)

	require.Equal(t, http.StatusOK, w.Code)
	got := decode[IngestResponse](t, w)
	assert.Equal(t, 2, got.Received)
	assert.Equal(t, 2, got.Inserted)
	require.Len(t, store.inserted, 2)
	assert.Equal(t, "alice", store.inserted[0].Username)
	assert.Equal(t, 2025, store.inserted[0].Timestamp.Year())
}

func TestIngestErrors(t *testing.T) {
	invalid := &fakeLog{insertErr: fmt.Errorf("%w: guild_id is required", model.ErrInvalidMessage)}
	w := do(t, NewRouter(NewHandler(&recordingSummarizer{}, invalid)), http.MethodPost, "/v1/messages", `{"messages":[{}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	broken := &fakeLog{insertErr: errors.New("disk full")}
	w = do(t, NewRouter(NewHandler(&recordingSummarizer{}, broken)), http.MethodPost, "/v1/messages", `{"messages":[]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")

	w = do(t, NewRouter(NewHandler(&recordingSummarizer{}, &fakeLog{})), http.MethodPost, "/v1/messages", `[`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := NewRouter(NewHandler(&recordingSummarizer{}, &fakeLog{}))

	w := do(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, w)["status"])

	w = do(t, router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	router := NewRouter(NewHandler(&recordingSummarizer{}, &fakeLog{}))
	w := do(t, router, http.MethodGet, "/v1/tldr", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
