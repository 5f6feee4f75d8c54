package agentry

import (
	"errors"
	"fmt"
)

// Role discriminates the message variants of a Conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of a Conversation. The populated fields depend on Role:
// user messages carry Content only; assistant messages carry Content plus zero or
// more ToolCalls; tool messages carry the result of one call, correlated by CallID.
type Message struct {
	Role      Role
	Content   string
	ToolCalls []ToolCall // assistant only: calls the model wants executed
	CallID    string     // tool only: ID of the ToolCall this result answers
	IsError   bool       // tool only: Content describes a failure
}

// UserMessage builds the initiating message of a turn.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage builds a model response with optional tool calls.
// A call-free assistant message is terminal for the turn.
func AssistantMessage(text string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
}

// ToolResultMessage builds the result entry for one executed call.
func ToolResultMessage(callID, content string, isError bool) Message {
	return Message{Role: RoleTool, CallID: callID, Content: content, IsError: isError}
}

// Conversation is the ordered, append-only transcript of one user turn.
// The runner is the sole writer; callers may read or persist it after the turn.
type Conversation []Message

// NewConversation starts a transcript with the initiating user message.
func NewConversation(userText string) Conversation {
	return Conversation{UserMessage(userText)}
}

// Last returns the most recent message, or false for an empty conversation.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

// FinalText returns the text of the terminal assistant message (one with no tool
// calls), or "" if the conversation has not reached one.
func (c Conversation) FinalText() string {
	last, ok := c.Last()
	if !ok || last.Role != RoleAssistant || len(last.ToolCalls) > 0 {
		return ""
	}
	return last.Content
}

var errEmptyConversation = errors.New("conversation is empty")

// Validate checks the transcript invariants: the conversation starts with exactly one
// user message, call IDs are unique within their assistant message, every tool result
// answers exactly one pending call, and no assistant message arrives while results are
// still outstanding. A conversation whose trailing calls are not yet answered is valid
// (the turn is mid-execution).
func (c Conversation) Validate() error {
	if len(c) == 0 {
		return errEmptyConversation
	}
	if c[0].Role != RoleUser {
		return fmt.Errorf("conversation must start with a user message, got %q", c[0].Role)
	}
	pending := make(map[string]bool)
	for i, msg := range c {
		switch msg.Role {
		case RoleUser:
			if i != 0 {
				return fmt.Errorf("message %d: unexpected second user message", i)
			}
		case RoleAssistant:
			if len(pending) > 0 {
				return fmt.Errorf("message %d: assistant message while %d tool calls are unresolved", i, len(pending))
			}
			for _, call := range msg.ToolCalls {
				if call.ID == "" {
					return fmt.Errorf("message %d: tool call for %q has empty ID", i, call.ToolName)
				}
				if pending[call.ID] {
					return fmt.Errorf("message %d: duplicate call ID %q", i, call.ID)
				}
				pending[call.ID] = true
			}
		case RoleTool:
			if !pending[msg.CallID] {
				return fmt.Errorf("message %d: tool result for unknown or already-resolved call %q", i, msg.CallID)
			}
			delete(pending, msg.CallID)
		default:
			return fmt.Errorf("message %d: unknown role %q", i, msg.Role)
		}
	}
	return nil
}
