// Package testutil provides test helpers for agentry (MockTool, ScriptedOracle).
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/agentry-go/agentry"
)

// MockTool is a configurable Tool implementation for tests.
type MockTool struct {
	NameVal   string
	DescVal   string
	ParamsVal map[string]any
	ExecuteFn func(ctx context.Context, args []byte) ([]byte, error)
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Description returns the tool description.
func (m *MockTool) Description() string {
	return m.DescVal
}

// Parameters returns the parameters schema (or empty map).
func (m *MockTool) Parameters() map[string]any {
	if m.ParamsVal != nil {
		return m.ParamsVal
	}
	return map[string]any{}
}

// Execute runs ExecuteFn if set, otherwise returns an empty JSON object.
func (m *MockTool) Execute(ctx context.Context, args []byte) ([]byte, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, args)
	}
	return []byte(`{}`), nil
}

// Ensure MockTool implements Tool.
var _ agentry.Tool = (*MockTool)(nil)

// ScriptedOracle replays a fixed sequence of messages, one per Converse call.
// It is safe for concurrent use and fails deterministically when the script
// runs out, so a runaway loop surfaces as an OracleError instead of hanging.
type ScriptedOracle struct {
	Script []agentry.Message
	calls  atomic.Int64
}

// Converse returns the next scripted message.
func (o *ScriptedOracle) Converse(_ context.Context, _ agentry.Conversation, _ []agentry.Tool) (agentry.Message, error) {
	i := int(o.calls.Add(1)) - 1
	if i >= len(o.Script) {
		return agentry.Message{}, fmt.Errorf("scripted oracle exhausted at call %d", i)
	}
	return o.Script[i], nil
}

// Calls reports how many times Converse has been invoked.
func (o *ScriptedOracle) Calls() int {
	return int(o.calls.Load())
}

var _ agentry.Oracle = (*ScriptedOracle)(nil)
