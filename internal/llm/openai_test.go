package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(config), model: "gpt-4o-mini"}
}

// completion answers every request with content and finishReason. When seen
// is non-nil it receives the raw request body.
func completion(t *testing.T, content, finishReason string, seen *map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-quiz",
			"object":  "chat.completion",
			"created": 1767225600,
			"model":   "gpt-4o-mini-2024-07-18",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finishReason,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func TestOpenAIProvider_StructuredQuizHeader(t *testing.T) {
	var sent map[string]any
	p := newTestOpenAIProvider(t, completion(t, `{"domain":"graphs","count":2,"difficulty":"hard"}`, "stop", &sent))

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write interview questions.",
		Messages:  []Message{{Role: RoleUser, Content: "Two hard graph questions."}},
		Schema:    quizSchema(),
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"domain":"graphs","count":2,"difficulty":"hard"}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}, resp.Usage)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.Model)
	assert.Equal(t, "end", resp.StopReason)

	msgs := sent["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].(map[string]any)["role"])
	assert.EqualValues(t, 256, sent["max_completion_tokens"])
	format := sent["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, "test-quiz", schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestOpenAIProvider_SchemaViolationIsInvalid(t *testing.T) {
	p := newTestOpenAIProvider(t, completion(t, `{"domain":"graphs","count":0}`, "stop", nil))
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Zero graph questions."}},
		Schema:   quizSchema(),
	})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestOpenAIProvider_LengthStop(t *testing.T) {
	p := newTestOpenAIProvider(t, completion(t, `Question 1: which traversal`, "length", nil))
	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "One BFS question."}}})
	require.NoError(t, err)
	assert.Equal(t, "max_tokens", resp.StopReason)
}

func TestOpenAIProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   string
		want   any
	}{
		{"rate limited", http.StatusTooManyRequests, "tokens", new(*ErrRateLimit)},
		{"server error", http.StatusInternalServerError, "server_error", new(*ErrProviderUnavailable)},
		{"overloaded", http.StatusServiceUnavailable, "server_error", new(*ErrProviderUnavailable)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": tt.kind, "message": tt.name},
				})
			})
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "One array question."}},
				MaxTokens: 100,
			})
			assert.ErrorAs(t, err, tt.want)
		})
	}
}

func TestNewOpenAIProvider_BaseURLOverride(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: "https://openrouter.ai/api/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.ModelID())
}
