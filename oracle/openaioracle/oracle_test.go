package openaioracle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentry-go/agentry"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{Model: "gpt-4.1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")

	_, err = New(Options{APIKey: "sk-test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model")

	o, err := New(Options{APIKey: "sk-test", Model: "gpt-4.1"})
	require.NoError(t, err)
	require.NotNil(t, o)
}

func TestToChatMessages(t *testing.T) {
	conv := agentry.Conversation{
		agentry.UserMessage("add 2 and 3"),
		agentry.AssistantMessage("", agentry.ToolCall{ID: "c1", ToolName: "add", Args: []byte(`{"a":2,"b":3}`)}),
		agentry.ToolResultMessage("c1", `{"sum":5}`, false),
		agentry.AssistantMessage("5"),
	}
	msgs := toChatMessages("be terse", conv)
	require.Len(t, msgs, 5)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	require.NotNil(t, msgs[2].OfAssistant)
	require.Len(t, msgs[2].OfAssistant.ToolCalls, 1)
	call := msgs[2].OfAssistant.ToolCalls[0].OfFunction
	require.NotNil(t, call)
	assert.Equal(t, "c1", call.ID)
	assert.Equal(t, "add", call.Function.Name)
	assert.JSONEq(t, `{"a":2,"b":3}`, call.Function.Arguments)
	assert.NotNil(t, msgs[3].OfTool)
	require.NotNil(t, msgs[4].OfAssistant)
	assert.Empty(t, msgs[4].OfAssistant.ToolCalls)
}

func TestToChatMessages_NoSystemPrompt(t *testing.T) {
	msgs := toChatMessages("", agentry.NewConversation("hi"))
	require.Len(t, msgs, 1)
	assert.NotNil(t, msgs[0].OfUser)
}

func TestToChatTools(t *testing.T) {
	add := &stubTool{name: "add", desc: "Adds integers", params: map[string]any{"type": "object"}}
	unnamed := &stubTool{name: "  "}
	tools := toChatTools([]agentry.Tool{add, unnamed})
	require.Len(t, tools, 1, "tools without a name are skipped")
	fn := tools[0].OfFunction
	require.NotNil(t, fn)
	assert.Equal(t, "add", fn.Function.Name)
	assert.Equal(t, map[string]any{"type": "object"}, map[string]any(fn.Function.Parameters))
}

func TestConverse_ToolCallRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "gpt-4.1", req["model"])
		msgs, _ := req["messages"].([]any)
		require.NotEmpty(t, msgs)
		toolsField, _ := req["tools"].([]any)
		require.Len(t, toolsField, 1)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
  "id": "chatcmpl-test",
  "object": "chat.completion",
  "created": 0,
  "model": "gpt-4.1",
  "choices": [
    {
      "index": 0,
      "finish_reason": "tool_calls",
      "message": {
        "role": "assistant",
        "content": "",
        "tool_calls": [
          {
            "id": "call_abc",
            "type": "function",
            "function": {"name": "add", "arguments": "{\"a\":2,\"b\":3}"}
          }
        ]
      }
    }
  ]
}`)
	}))
	defer srv.Close()

	oracle, err := New(Options{APIKey: "sk-test", Model: "gpt-4.1", BaseURL: srv.URL})
	require.NoError(t, err)

	add := &stubTool{name: "add", desc: "Adds integers", params: map[string]any{"type": "object"}}
	msg, err := oracle.Converse(context.Background(), agentry.NewConversation("2+3?"), []agentry.Tool{add})
	require.NoError(t, err)
	assert.Equal(t, agentry.RoleAssistant, msg.Role)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "call_abc", msg.ToolCalls[0].ID)
	assert.Equal(t, "add", msg.ToolCalls[0].ToolName)
	assert.JSONEq(t, `{"a":2,"b":3}`, string(msg.ToolCalls[0].Args))
}

func TestConverse_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer srv.Close()

	oracle, err := New(Options{APIKey: "sk-test", Model: "gpt-4.1", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = oracle.Converse(context.Background(), agentry.NewConversation("hi"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_429")
}

type stubTool struct {
	name   string
	desc   string
	params map[string]any
}

func (s *stubTool) Name() string               { return s.name }
func (s *stubTool) Description() string        { return s.desc }
func (s *stubTool) Parameters() map[string]any { return s.params }
func (s *stubTool) Execute(context.Context, []byte) ([]byte, error) {
	return nil, nil
}
