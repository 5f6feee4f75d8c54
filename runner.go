package agentry

import (
	"context"
	"fmt"
)

// State is the phase of a running turn.
type State int

const (
	// StateAwaitingOracle means the runner is waiting for the model's next message.
	StateAwaitingOracle State = iota
	// StateExecutingTools means the runner is executing the calls of the latest assistant message.
	StateExecutingTools
	// StateDone means a call-free assistant message has been appended; the turn is over.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingOracle:
		return "awaiting_oracle"
	case StateExecutingTools:
		return "executing_tools"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Oracle is the reasoning component that drives a turn: given the transcript so far
// and the available tools, it returns the next assistant message. The runner treats
// it as a black box and only inspects the shape of the returned message (text plus
// zero or more tool calls). Adapters to concrete providers live outside the core
// (see oracle/openaioracle).
type Oracle interface {
	Converse(ctx context.Context, conv Conversation, tools []Tool) (Message, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, conv Conversation, tools []Tool) (Message, error)

func (f OracleFunc) Converse(ctx context.Context, conv Conversation, tools []Tool) (Message, error) {
	return f(ctx, conv, tools)
}

// DefaultMaxIterations is the per-turn oracle round-trip budget used when
// WithMaxIterations is not given.
const DefaultMaxIterations = 10

// Runner drives one user turn to completion: it alternates oracle calls and tool
// executions, accumulating the transcript, until the oracle answers without
// requesting tools or the iteration budget runs out. One Runner may serve many
// turns; each turn owns its Conversation and runs on the caller's goroutine.
type Runner struct {
	registry *Registry
	oracle   Oracle
	opts     runnerOptions
}

// NewRunner wires a Runner from its collaborators. Both must be non-nil.
func NewRunner(registry *Registry, oracle Oracle, opts ...RunnerOption) *Runner {
	o := runnerOptions{maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&o)
	}
	return &Runner{registry: registry, oracle: oracle, opts: o}
}

// RunTurn runs one turn and returns the terminal assistant message's text.
// Tool failures are routed back into the conversation as error-flagged results so
// the model can self-correct; only infrastructure failures (oracle unreachable,
// budget exceeded, cancellation) are returned as errors.
func (r *Runner) RunTurn(ctx context.Context, userText string) (string, error) {
	conv, err := r.Run(ctx, userText)
	if err != nil {
		return "", err
	}
	return conv.FinalText(), nil
}

// Run is RunTurn with the full transcript: it returns the accumulated Conversation,
// including the partial transcript when the turn fails.
func (r *Runner) Run(ctx context.Context, userText string) (Conversation, error) {
	conv := NewConversation(userText)
	state := StateAwaitingOracle

	transition := func(to State) {
		if r.opts.onTransition != nil {
			r.opts.onTransition(state, to)
		}
		state = to
	}

	for range r.opts.maxIterations {
		// Cancellation is honored at state-transition boundaries, not mid-call.
		if err := ctx.Err(); err != nil {
			return conv, err
		}

		msg, err := r.oracle.Converse(ctx, conv, r.registry.List())
		if err != nil {
			return conv, &OracleError{Err: err}
		}
		msg.Role = RoleAssistant
		conv = append(conv, msg)

		if len(msg.ToolCalls) == 0 {
			transition(StateDone)
			return conv, nil
		}

		transition(StateExecutingTools)
		for _, res := range r.executeCalls(ctx, msg.ToolCalls) {
			conv = append(conv, resultMessage(res))
		}
		transition(StateAwaitingOracle)
	}
	return conv, fmt.Errorf("%w after %d iterations", ErrBudgetExceeded, r.opts.maxIterations)
}

// executeCalls dispatches the calls of one assistant message. Results come back in
// call order either way; parallel mode only changes execution, not the transcript.
func (r *Runner) executeCalls(ctx context.Context, calls []ToolCall) []ToolResult {
	if r.opts.parallelCalls {
		return r.registry.ExecuteBatch(ctx, calls)
	}
	results := make([]ToolResult, len(calls))
	for i, call := range calls {
		results[i] = r.registry.Execute(ctx, call)
	}
	return results
}

// resultMessage converts a ToolResult into its transcript entry. Error text goes to
// the model verbatim; SystemError already masks internal details in Error().
func resultMessage(res ToolResult) Message {
	if res.Error != nil {
		return ToolResultMessage(res.CallID, res.Error.Error(), true)
	}
	return ToolResultMessage(res.CallID, string(res.Result), false)
}
