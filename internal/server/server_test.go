package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/reeltalk/reeltalk/internal/metrics"
	"github.com/reeltalk/reeltalk/internal/server"
	"github.com/reeltalk/reeltalk/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger creates a logger that writes to stderr for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// fakeRunner is a canned workflow runner.
type fakeRunner struct {
	answer      string
	err         error
	calls       int
	lastQuery   string
	lastHistory []llm.Message
}

func (f *fakeRunner) Run(_ context.Context, query string, history []llm.Message) (string, error) {
	f.calls++
	f.lastQuery = query
	f.lastHistory = history
	return f.answer, f.err
}

func newTestServer(runner *fakeRunner) (*server.Server, *session.Store) {
	store := session.NewStore()
	srv := server.New(":0", store, runner, metrics.NewCollector(), testLogger())
	return srv, store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		SessionID string `json:"session_id"`
		CreatedAt string `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	require.NotEmpty(t, resp.CreatedAt)
	return resp.SessionID
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(&fakeRunner{answer: "ok"})

	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestCreateSessionUniqueIDs(t *testing.T) {
	srv, store := newTestServer(&fakeRunner{answer: "ok"})

	id1 := createSession(t, srv.Handler())
	id2 := createSession(t, srv.Handler())
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, store.Len())
}

func TestSendMessage(t *testing.T) {
	runner := &fakeRunner{answer: "Mock assistant response"}
	srv, _ := newTestServer(runner)
	id := createSession(t, srv.Handler())

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/sessions/"+id+"/messages",
		map[string]string{"message": "What are the top rated movies?"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MessageID         string `json:"message_id"`
		UserMessage       string `json:"user_message"`
		AssistantResponse string `json:"assistant_response"`
		Timestamp         string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.MessageID)
	assert.Equal(t, "What are the top rated movies?", resp.UserMessage)
	assert.Equal(t, "Mock assistant response", resp.AssistantResponse)
	assert.NotEmpty(t, resp.Timestamp)

	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "What are the top rated movies?", runner.lastQuery)
	assert.Empty(t, runner.lastHistory, "first message has no prior history")
}

func TestSendMessageStoresInterleavedTurns(t *testing.T) {
	runner := &fakeRunner{answer: "answer"}
	srv, store := newTestServer(runner)
	id := createSession(t, srv.Handler())

	const posts = 5
	for i := 0; i < posts; i++ {
		w := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/sessions/"+id+"/messages",
			map[string]string{"message": fmt.Sprintf("question %d", i)})
		require.Equal(t, http.StatusOK, w.Code)
	}

	sess, err := store.Get(mustParseSessionID(t, id))
	require.NoError(t, err)
	require.Len(t, sess.Turns, 2*posts)
	for i, turn := range sess.Turns {
		if i%2 == 0 {
			assert.Equal(t, llm.RoleUser, turn.Role)
		} else {
			assert.Equal(t, llm.RoleAssistant, turn.Role)
		}
	}

	// The last post saw the 8 prior turns as history.
	assert.Len(t, runner.lastHistory, 8)
}

func TestSendMessageHistoryExcludesCurrentMessage(t *testing.T) {
	runner := &fakeRunner{answer: "a"}
	srv, _ := newTestServer(runner)
	id := createSession(t, srv.Handler())

	doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/sessions/"+id+"/messages",
		map[string]string{"message": "first"})
	doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/sessions/"+id+"/messages",
		map[string]string{"message": "second"})

	require.Len(t, runner.lastHistory, 2)
	assert.Equal(t, "first", runner.lastHistory[0].Content)
	assert.Equal(t, "a", runner.lastHistory[1].Content)
}

func TestSendMessageUnknownSession(t *testing.T) {
	srv, _ := newTestServer(&fakeRunner{answer: "x"})

	w := doJSON(t, srv.Handler(), http.MethodPost,
		"/api/v1/sessions/6b1884b9-5bb9-4a11-918a-f4dd0a9ed2e9/messages",
		map[string]string{"message": "Hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestSendMessageMalformedSessionID(t *testing.T) {
	srv, _ := newTestServer(&fakeRunner{answer: "x"})

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/sessions/not-a-uuid/messages",
		map[string]string{"message": "Hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendMessageValidation(t *testing.T) {
	runner := &fakeRunner{answer: "x"}
	srv, _ := newTestServer(runner)
	id := createSession(t, srv.Handler())

	tests := []struct {
		name string
		body any
	}{
		{"empty message", map[string]string{"message": ""}},
		{"missing message", map[string]string{}},
		{"no body", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/sessions/"+id+"/messages", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
	assert.Equal(t, 0, runner.calls, "workflow must not run for invalid requests")
}

func TestSendMessageRunnerFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("graph engine defect")}
	srv, store := newTestServer(runner)
	id := createSession(t, srv.Handler())

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/sessions/"+id+"/messages",
		map[string]string{"message": "Hello"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "graph engine defect")

	// Failed invocations leave no turns behind.
	sess, err := store.Get(mustParseSessionID(t, id))
	require.NoError(t, err)
	assert.Empty(t, sess.Turns)
}

func TestListMessages(t *testing.T) {
	runner := &fakeRunner{answer: "answer"}
	srv, _ := newTestServer(runner)
	id := createSession(t, srv.Handler())

	for i := 0; i < 5; i++ {
		doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/sessions/"+id+"/messages",
			map[string]string{"message": fmt.Sprintf("question %d", i)})
	}

	// limit=2 returns the two most recent of the ten stored turns.
	w := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/sessions/"+id+"/messages?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SessionID string `json:"session_id"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.SessionID)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "question 4", resp.Messages[0].Content)
	assert.Equal(t, "answer", resp.Messages[1].Content)

	// Default limit is 10.
	w = doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/sessions/"+id+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 10)
}

func TestListMessagesValidation(t *testing.T) {
	srv, _ := newTestServer(&fakeRunner{answer: "x"})
	id := createSession(t, srv.Handler())

	for _, limit := range []string{"0", "101", "-3", "abc"} {
		w := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/sessions/"+id+"/messages?limit="+limit, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "limit=%s", limit)
	}

	w := doJSON(t, srv.Handler(), http.MethodGet,
		"/api/v1/sessions/e3f9c0de-2c37-49bd-a28f-8a11de1b1a1a/messages", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(&fakeRunner{answer: "x"})
	id := createSession(t, srv.Handler())
	doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/sessions/"+id+"/messages",
		map[string]string{"message": "hello"})

	w := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uptime_seconds")
	assert.Contains(t, w.Body.String(), "request")
}

func mustParseSessionID(t *testing.T, id string) uuid.UUID {
	t.Helper()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	return parsed
}
