package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/twin-memory/internal/agent"
	"github.com/rcliao/twin-memory/internal/logging"
	"github.com/rcliao/twin-memory/internal/model"
	"github.com/rcliao/twin-memory/internal/profile"
	"github.com/rcliao/twin-memory/internal/store"
)

type echoProvider struct {
	err error
}

func (p echoProvider) Complete(_ context.Context, req agent.Request) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "echo: " + req.Messages[len(req.Messages)-1].Content, nil
}

func (p echoProvider) Stream(_ context.Context, req agent.Request, emit func(string) error) error {
	if p.err != nil {
		return p.err
	}
	for _, tok := range []string{"echo: ", req.Messages[len(req.Messages)-1].Content} {
		if err := emit(tok); err != nil {
			return err
		}
	}
	return nil
}

func newTestServer(t *testing.T, p agent.Provider, opts ...store.Option) (*Server, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "memories.json"), opts...)
	require.NoError(t, err)
	a := agent.New(st, profile.Default("Ada"), p)
	return New(a, logging.Nop()), st
}

func do(t *testing.T, s *Server, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestRoot(t *testing.T) {
	s, _ := newTestServer(t, echoProvider{})
	resp, body := do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"running"`)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := newTestServer(t, echoProvider{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestChat(t *testing.T) {
	s, st := newTestServer(t, echoProvider{})
	resp, body := do(t, s, http.MethodPost, "/chat", `{"message":"hello","context":{"mood":"calm","n":2}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out ChatResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "echo: hello", out.Response)
	assert.False(t, out.Timestamp.IsZero())

	short := st.ShortTerm()
	require.Len(t, short, 1)
	assert.Equal(t, model.String("calm"), short[0].Context["mood"])
	assert.Equal(t, model.Number(2.0), short[0].Context["n"])
}

func TestChatValidation(t *testing.T) {
	s, _ := newTestServer(t, echoProvider{})

	resp, body := do(t, s, http.MethodPost, "/chat", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "message is required")

	resp, _ = do(t, s, http.MethodPost, "/chat", `{"message":"hi","context":{"list":[1,2]}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, s, http.MethodPost, "/chat", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatProviderFailure(t *testing.T) {
	s, _ := newTestServer(t, echoProvider{err: errors.New("upstream down")})
	resp, body := do(t, s, http.MethodPost, "/chat", `{"message":"hello"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, string(body), "upstream down")
}

func TestChatStream(t *testing.T) {
	s, st := newTestServer(t, echoProvider{})
	resp, body := do(t, s, http.MethodPost, "/chat/stream", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	text := string(body)
	assert.Contains(t, text, "event: token\ndata: \"echo: \"\n\n")
	assert.Contains(t, text, "event: token\ndata: \"hello\"\n\n")
	assert.True(t, strings.HasSuffix(text, "event: done\ndata: \"\"\n\n"))
	assert.Len(t, st.ShortTerm(), 1)
}

func TestChatStreamProviderFailure(t *testing.T) {
	s, st := newTestServer(t, echoProvider{err: errors.New("upstream down")})
	_, body := do(t, s, http.MethodPost, "/chat/stream", `{"message":"hello"}`)
	assert.Contains(t, string(body), "event: error")
	assert.Empty(t, st.ShortTerm())
}

func TestProfileEndpoints(t *testing.T) {
	s, _ := newTestServer(t, echoProvider{})

	resp, _ := do(t, s, http.MethodPost, "/profile/update", `{"name":"Grace","occupation":"admiral"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, s, http.MethodPost, "/profile/interest/add", `{"topic":"sailing","keywords":["boat"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, s, http.MethodPost, "/profile/trait/update", `{"trait_name":"openness","value":0.9}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, s, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p profile.Profile
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "Grace", p.Name)
	assert.Equal(t, "admiral", p.Occupation)
	require.Len(t, p.Interests, 1)
	assert.Equal(t, "sailing", p.Interests[0].Topic)
	assert.Equal(t, 0.5, p.Interests[0].Level)
	assert.Equal(t, 0.9, p.TraitValue(profile.TraitOpenness))
}

func TestProfileValidation(t *testing.T) {
	s, _ := newTestServer(t, echoProvider{})

	resp, _ := do(t, s, http.MethodPost, "/profile/interest/add", `{"level":0.4}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, s, http.MethodPost, "/profile/trait/update", `{"trait_name":"openness"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, s, http.MethodPost, "/profile/update", `{"age":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMemoryEndpoints(t *testing.T) {
	s, _ := newTestServer(t, echoProvider{}, store.WithShortTermCapacity(1))
	for _, msg := range []string{"planning a trip to Kyoto", "fixing the build", "anything"} {
		resp, _ := do(t, s, http.MethodPost, "/chat", `{"message":"`+msg+`"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	_, body := do(t, s, http.MethodGet, "/memories/search?query=KYOTO", "")
	var search struct {
		Results []string `json:"results"`
	}
	require.NoError(t, json.Unmarshal(body, &search))
	require.Len(t, search.Results, 1)
	assert.Contains(t, search.Results[0], "Kyoto")

	_, body = do(t, s, http.MethodGet, "/memories/search?query=the&max_results=0", "")
	require.NoError(t, json.Unmarshal(body, &search))
	assert.Empty(t, search.Results)

	_, body = do(t, s, http.MethodGet, "/memories/recent?days=7", "")
	var recent struct {
		Memories []json.RawMessage `json:"memories"`
	}
	require.NoError(t, json.Unmarshal(body, &recent))
	assert.Len(t, recent.Memories, 2)

	resp, _ := do(t, s, http.MethodGet, "/memories/recent?days=-1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = do(t, s, http.MethodGet, "/summary", "")
	assert.Contains(t, string(body), "Long-term memories: 2")
}

func TestResetAndSave(t *testing.T) {
	s, st := newTestServer(t, echoProvider{})
	resp, _ := do(t, s, http.MethodPost, "/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, s, http.MethodPost, "/conversation/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, st.Working())

	resp, _ = do(t, s, http.MethodPost, "/save", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reloaded, err := store.New(st.Path())
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.Len(t, reloaded.ShortTerm(), 1)
}

func TestShutdownSaves(t *testing.T) {
	s, st := newTestServer(t, echoProvider{})
	resp, _ := do(t, s, http.MethodPost, "/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_ = s.Shutdown()

	reloaded, err := store.New(st.Path())
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.Len(t, reloaded.ShortTerm(), 1)
}
