// Package agentry provides a type-safe tool registry and a bounded orchestration
// loop for LLM agents: register Go functions as schema-described tools, let a
// reasoning oracle decide which to call, execute them safely, and feed results
// back until the oracle produces a final answer.
//
// # Overview
//
// LLMs produce tool calls as JSON. The registry turns that JSON into concrete Go
// function calls: unmarshal → validate (against the same JSON Schema shown to the
// LLM) → execute → marshal result or return a clear error for self-correction.
// The Runner drives the turn: it sends the conversation and the registry's tool
// list to an Oracle, executes any requested calls, appends the results, and
// repeats until the oracle answers without tool calls or the iteration budget
// runs out.
//
// # Key concepts
//
//   - Single Source of Truth: one set of struct tags drives both the schema sent
//     to the LLM and the validation of incoming JSON.
//   - Failure containment: a malfunctioning tool never crashes the turn. Unknown
//     names, invalid arguments, handler errors, and panics all come back as
//     error-flagged tool results in the transcript.
//   - Self-Correction: ClientError carries human-readable messages back to the
//     LLM; SystemError masks internal details.
//   - Bounded turns: the loop is capped by WithMaxIterations and fails with
//     ErrBudgetExceeded instead of spinning on a non-convergent oracle.
//
// See Tool, ToolCall, ToolResult, Conversation for the core types, and
// NewTool / NewRegistry / NewRunner for setup.
//
// # Example
//
//	type Args struct { A, B int }
//	type Out  struct { Sum int `json:"sum"` }
//	add, _ := agentry.NewTool("add", "Add two integers", func(_ context.Context, a Args) (Out, error) {
//	    return Out{Sum: a.A + a.B}, nil
//	})
//	reg := agentry.NewRegistry()
//	reg.Register(add)
//	runner := agentry.NewRunner(reg, oracle, agentry.WithMaxIterations(5))
//	answer, err := runner.RunTurn(ctx, "what is 2+3?")
package agentry
