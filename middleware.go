package agentry

import (
	"context"
	"log/slog"
	"time"
)

// Middleware wraps a Tool with cross-cutting behavior (logging, recovery, timeout).
type Middleware func(Tool) Tool

// WithLogging returns a middleware logging each execution with its duration and outcome.
// A nil logger falls back to slog.Default.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Tool) Tool {
		return &logWrapper{wrapped: wrapped{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware converting tool panics into SystemError.
func WithRecovery() Middleware {
	return func(next Tool) Tool {
		return &recoverWrapper{wrapped{next: next}}
	}
}

// WithTimeoutMiddleware returns a middleware enforcing a deadline on each execution.
// The "Middleware" suffix avoids colliding with the ToolOption WithTimeout. When the
// registry default timeout also applies, whichever context expires first wins.
func WithTimeoutMiddleware(d time.Duration) Middleware {
	return func(next Tool) Tool {
		return &deadlineWrapper{wrapped: wrapped{next: next}, limit: d}
	}
}

// wrapped forwards the descriptor and metadata surface to the inner Tool, so
// registries and oracles see through the middleware chain.
type wrapped struct{ next Tool }

func (w *wrapped) Name() string               { return w.next.Name() }
func (w *wrapped) Description() string        { return w.next.Description() }
func (w *wrapped) Parameters() map[string]any { return w.next.Parameters() }

func (w *wrapped) Timeout() time.Duration {
	if tm, ok := w.next.(ToolMetadata); ok {
		return tm.Timeout()
	}
	return 0
}
func (w *wrapped) Tags() []string {
	if tm, ok := w.next.(ToolMetadata); ok {
		return tm.Tags()
	}
	return nil
}
func (w *wrapped) Version() string {
	if tm, ok := w.next.(ToolMetadata); ok {
		return tm.Version()
	}
	return ""
}
func (w *wrapped) IsDangerous() bool {
	if tm, ok := w.next.(ToolMetadata); ok {
		return tm.IsDangerous()
	}
	return false
}

type logWrapper struct {
	wrapped
	logger *slog.Logger
}

func (w *logWrapper) Execute(ctx context.Context, args []byte) ([]byte, error) {
	name := w.next.Name()
	w.logger.Info("tool start", "tool", name)
	start := time.Now()
	res, err := w.next.Execute(ctx, args)
	elapsed := time.Since(start)
	if err != nil {
		w.logger.Error("tool error", "tool", name, "duration", elapsed, "error", err)
		return nil, err
	}
	w.logger.Info("tool end", "tool", name, "duration", elapsed)
	return res, nil
}

type recoverWrapper struct{ wrapped }

func (w *recoverWrapper) Execute(ctx context.Context, args []byte) (res []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = &SystemError{Err: &panicError{p: p}}
		}
	}()
	return w.next.Execute(ctx, args)
}

type deadlineWrapper struct {
	wrapped
	limit time.Duration
}

// Timeout reports the middleware's limit so the registry does not layer its
// default on top; the inner tool's own setting applies when no limit is set.
func (w *deadlineWrapper) Timeout() time.Duration {
	if w.limit > 0 {
		return w.limit
	}
	return w.wrapped.Timeout()
}

func (w *deadlineWrapper) Execute(ctx context.Context, args []byte) ([]byte, error) {
	if w.limit <= 0 {
		return w.next.Execute(ctx, args)
	}
	ctx, cancel := context.WithTimeout(ctx, w.limit)
	defer cancel()
	return w.next.Execute(ctx, args)
}

// Use replaces the registry's middleware chain and rewraps every tool from its raw
// form (first middleware outermost). Because wrapping always restarts from the raw
// tool, repeated Use calls never stack chains on top of each other. Tools registered
// later pick up the current chain in Register.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for name, raw := range r.rawTools {
		t := raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			t = middlewares[i](t)
		}
		r.tools[name] = t
	}
}
