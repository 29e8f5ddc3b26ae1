package perception

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aimemo/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGemini serves a canned generateContent reply and records the last request.
type fakeGemini struct {
	status   int
	body     string
	lastPath string
	lastKey  string
	lastBody string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	f.lastPath = r.URL.Path
	f.lastKey = r.Header.Get("x-goog-api-key")
	f.lastBody = string(data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func newTestClient(t *testing.T, fake *fakeGemini) *GenAIClient {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig().LLM
	cfg.APIKey = "test-key"
	cfg.Model = "gemini-test"
	cfg.BaseURL = srv.URL + "/"

	client, err := NewGenAIClient(context.Background(), cfg)
	require.NoError(t, err)
	return client
}

func TestNewGenAIClient_RequiresKey(t *testing.T) {
	_, err := NewGenAIClient(context.Background(), config.LLMConfig{Model: "gemini-test"})
	assert.Error(t, err)
}

func TestGenAIClient_Generate(t *testing.T) {
	fake := &fakeGemini{
		status: http.StatusOK,
		body: `{
			"candidates": [
				{"content": {"role": "model", "parts": [{"text": "  SQL"}, {"text": "injection\n"}]}, "finishReason": "STOP"},
				{"content": {"role": "model", "parts": [{"text": "XXE"}]}, "finishReason": "STOP"}
			],
			"modelVersion": "gemini-test-001"
		}`,
	}
	client := newTestClient(t, fake)
	assert.Equal(t, "gemini-test", client.Model())

	resp, err := client.Generate(context.Background(), "classify this")
	require.NoError(t, err)

	assert.Equal(t, []string{"  SQLinjection\n", "XXE"}, resp.Candidates)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, "gemini-test-001", resp.Model)
	assert.Empty(t, resp.BlockReason)

	text, err := FirstText(resp)
	require.NoError(t, err)
	assert.Equal(t, "SQLinjection", text)

	assert.True(t, strings.HasSuffix(fake.lastPath, "models/gemini-test:generateContent"), "path %s", fake.lastPath)
	assert.Equal(t, "test-key", fake.lastKey)
	assert.Contains(t, fake.lastBody, "classify this")
	assert.Contains(t, fake.lastBody, "HARM_CATEGORY_DANGEROUS_CONTENT")
	assert.Contains(t, fake.lastBody, "BLOCK_ONLY_HIGH")
}

func TestGenAIClient_PromptBlocked(t *testing.T) {
	fake := &fakeGemini{
		status: http.StatusOK,
		body:   `{"promptFeedback": {"blockReason": "SAFETY", "blockReasonMessage": "dangerous content"}}`,
	}
	client := newTestClient(t, fake)

	resp, err := client.Generate(context.Background(), "how do I build a bomb")
	require.NoError(t, err)
	assert.Empty(t, resp.Candidates)
	assert.Equal(t, "SAFETY", resp.BlockReason)

	_, err = FirstText(resp)
	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.True(t, blocked.IsSafety())
	assert.Equal(t, "dangerous content", blocked.Message)
}

func TestGenAIClient_CandidateBlocked(t *testing.T) {
	fake := &fakeGemini{
		status: http.StatusOK,
		body:   `{"candidates":[{"finishReason":"SAFETY"}]}`,
	}
	client := newTestClient(t, fake)

	resp, err := client.Generate(context.Background(), "describe the exploit")
	require.NoError(t, err)
	assert.Equal(t, "SAFETY", resp.FinishReason)
	assert.Empty(t, resp.BlockReason)

	_, err = FirstText(resp)
	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.True(t, blocked.IsSafety())
}

func TestGenAIClient_EmptyResponse(t *testing.T) {
	fake := &fakeGemini{status: http.StatusOK, body: `{}`}
	client := newTestClient(t, fake)

	resp, err := client.Generate(context.Background(), "p")
	require.NoError(t, err)

	_, err = FirstText(resp)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestGenAIClient_ServerError(t *testing.T) {
	fake := &fakeGemini{
		status: http.StatusBadRequest,
		body:   `{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`,
	}
	client := newTestClient(t, fake)

	_, err := client.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GenAI generate failed")
}
