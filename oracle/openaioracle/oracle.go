// Package openaioracle adapts the OpenAI chat completions API to the
// agentry.Oracle interface. The adapter owns the wire translation only:
// transcript bookkeeping and tool execution stay in the runner.
package openaioracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/agentry-go/agentry"
)

// Options configures the adapter.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// SystemPrompt, when set, is prepended to every request as a system message.
	SystemPrompt string
	// ParallelToolCalls lets the model request several calls in one message.
	ParallelToolCalls bool
}

// Oracle calls the OpenAI chat completions API.
type Oracle struct {
	api  *openai.Client
	opts Options
}

var _ agentry.Oracle = (*Oracle)(nil)

// New builds an Oracle. APIKey and Model are required.
func New(opts Options) (*Oracle, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing API key")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("missing model")
	}
	cfg := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg = append(cfg, option.WithBaseURL(strings.TrimRight(base, "/")))
	}
	client := openai.NewClient(cfg...)
	return &Oracle{api: &client, opts: opts}, nil
}

// Converse sends the transcript and tool descriptors, returning the model's
// next message with any requested tool calls decoded.
func (o *Oracle) Converse(ctx context.Context, conv agentry.Conversation, tools []agentry.Tool) (agentry.Message, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(o.opts.Model),
		Messages: toChatMessages(o.opts.SystemPrompt, conv),
	}
	if len(tools) > 0 {
		params.Tools = toChatTools(tools)
		params.ParallelToolCalls = openai.Bool(o.opts.ParallelToolCalls)
	}

	resp, err := o.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return agentry.Message{}, wrapHTTPError(err)
	}
	if len(resp.Choices) == 0 {
		return agentry.Message{}, errors.New("no completion choices returned")
	}
	return fromCompletion(resp.Choices[0].Message), nil
}

func toChatMessages(systemPrompt string, conv agentry.Conversation) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(conv)+1)
	if strings.TrimSpace(systemPrompt) != "" {
		out = append(out, openai.SystemMessage(systemPrompt))
	}
	for _, msg := range conv {
		switch msg.Role {
		case agentry.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(msg.Content))
				continue
			}
			assistant := openai.ChatCompletionAssistantMessageParam{
				ToolCalls: make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(msg.ToolCalls)),
			}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: call.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      call.ToolName,
							Arguments: string(call.Args),
						},
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case agentry.RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.CallID))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func toChatTools(tools []agentry.Tool) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		name := strings.TrimSpace(tool.Name())
		if name == "" {
			continue
		}
		fn := shared.FunctionDefinitionParam{
			Name:       name,
			Parameters: tool.Parameters(),
		}
		if desc := strings.TrimSpace(tool.Description()); desc != "" {
			fn.Description = openai.String(desc)
		}
		out = append(out, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: fn,
			},
		})
	}
	return out
}

func fromCompletion(msg openai.ChatCompletionMessage) agentry.Message {
	out := agentry.Message{Role: agentry.RoleAssistant, Content: msg.Content}
	for _, call := range msg.ToolCalls {
		if call.Function.Name == "" {
			continue
		}
		out.ToolCalls = append(out.ToolCalls, agentry.ToolCall{
			ID:       call.ID,
			ToolName: call.Function.Name,
			Args:     []byte(call.Function.Arguments),
		})
	}
	return out
}

func wrapHTTPError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		raw := strings.TrimSpace(apiErr.RawJSON())
		if raw != "" {
			return fmt.Errorf("http_%d: %s", apiErr.StatusCode, raw)
		}
		return fmt.Errorf("http_%d: %v", apiErr.StatusCode, err)
	}
	return err
}
