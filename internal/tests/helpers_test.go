package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
)

// fakeModel serves OpenAI-compatible chat completions, replying with replies[i]
// on call i (the last reply repeats). A reply of "" answers 503.
type fakeModel struct {
	replies []string
	calls   int32
}

func (f *fakeModel) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

func (f *fakeModel) start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&f.calls, 1)) - 1
		if n >= len(f.replies) {
			n = len(f.replies) - 1
		}
		reply := f.replies[n]
		if reply == "" {
			http.Error(w, `{"error": {"message": "model overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: reply}}},
			Usage:   openai.Usage{PromptTokens: 500, CompletionTokens: 50},
		})
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// useFakeModel points the environment-driven config at the fake model.
func useFakeModel(t *testing.T, f *fakeModel) {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_BASE_URL", f.start(t))
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL_NAME", "gpt-test")
	t.Setenv("LLM_MAX_RETRIES", "2")
	t.Setenv("LLM_RETRY_DELAY", "0")
	t.Setenv("LOG_LEVEL", "error")
}

const waterReply = `{"labels": [{"label": "servicio de agua potable mediante red publica o pileta publica", "id": 3, "confianza": 0.93, "justificacion": "menciona agua potable"}]}`
