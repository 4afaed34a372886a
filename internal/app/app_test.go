package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnichat/backend/internal/config"
	"omnichat/backend/internal/conversation"
	"omnichat/backend/internal/identity"
)

const testSecret = "test-secret"

func testConfig(t *testing.T, aiURL string) *config.Config {
	return &config.Config{
		AppPort:              0,
		DatabasePath:         filepath.Join(t.TempDir(), "app.db"),
		LogLevel:             "DEBUG",
		AuthTokenSecret:      testSecret,
		AuthTokenIssuer:      "omnichat",
		AuthTokenTTL:         time.Hour,
		SessionIdleTTL:       time.Minute,
		SessionSweepInterval: time.Minute,
		RealtimeBackend:      config.RealtimeMemory,
		AIEndpointBaseURL:    aiURL,
	}
}

// fakeAI stands in for the /api/ai endpoints and echoes the message back.
func fakeAI(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "echo: " + req.Message})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func startApp(t *testing.T) *httptest.Server {
	t.Helper()
	a, err := NewApp(context.Background(), testConfig(t, fakeAI(t).URL))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	srv := httptest.NewServer(a.Server.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, token, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Session-ID", "tab-1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestNewApp(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig(t, "http://127.0.0.1:1/api/ai"))
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Close()) }()

	assert.NotNil(t, a.DB)
	assert.NotNil(t, a.Bus)
	assert.NotNil(t, a.Server)
	assert.Equal(t, ":0", a.Server.Addr)
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.RealtimeBackend = config.RealtimeRedis
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestApp_AnonymousConversation(t *testing.T) {
	srv := startApp(t)

	status, body := call(t, http.MethodGet, srv.URL+"/healthz", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	status, _ = call(t, http.MethodGet, srv.URL+"/api/v1/session", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, http.MethodPost, srv.URL+"/api/v1/auth/anonymous", "", "")
	require.Equal(t, http.StatusOK, status)
	var anon struct {
		Token string        `json:"token"`
		User  identity.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &anon))
	assert.True(t, anon.User.IsAnonymous)

	status, body = call(t, http.MethodPost, srv.URL+"/api/v1/session/messages", anon.Token, `{"text":"hello"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	var v conversation.View
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, conversation.ModeAnonymous, v.Mode)
	require.Len(t, v.Messages, 2)
	assert.Equal(t, "echo: hello", v.Messages[1].Text)
}

func TestApp_SignedInConversation(t *testing.T) {
	srv := startApp(t)
	tokens := identity.NewTokenService(testSecret, "omnichat", time.Hour)
	token, err := tokens.Issue(identity.User{UID: "user-1", Email: "user@example.com"})
	require.NoError(t, err)

	status, body := call(t, http.MethodPost, srv.URL+"/api/v1/session/messages", token, `{"text":"persist me"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	require.Eventually(t, func() bool {
		status, body := call(t, http.MethodGet, srv.URL+"/api/v1/session", token, "")
		if status != http.StatusOK {
			return false
		}
		var v conversation.View
		if err := json.Unmarshal(body, &v); err != nil {
			return false
		}
		return len(v.Chats) == 1 && v.Chats[0].Title == "persist me" && v.Chats[0].MessageCount == 2 && len(v.Messages) == 2
	}, 2*time.Second, 20*time.Millisecond)

	status, _ = call(t, http.MethodPut, srv.URL+"/api/v1/session/provider", token, `{"provider":"mistral"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}
