package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/limehawk/gam-multi/pkg/gam"
)

// Engine is the shared execution pipeline behind every GAM tool.
type Engine struct {
	executor     gam.Executor
	gate         *gam.Gate
	orchestrator *gam.Orchestrator
	nowFn        func() time.Time
}

func NewEngine(executor gam.Executor, nowFn func() time.Time) *Engine {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Engine{
		executor:     executor,
		gate:         gam.NewGate(executor),
		orchestrator: gam.NewOrchestrator(executor),
		nowFn:        nowFn,
	}
}

func (e *Engine) now() time.Time {
	return e.nowFn()
}

// run executes cmd and maps the outcome onto a tool result.
func (e *Engine) run(ctx context.Context, cmd gam.CommandLine, timeout time.Duration, summary string) *ToolResult {
	return outcomeResult(e.executor.Run(ctx, cmd, timeout), summary)
}

// gated runs action through the confirmation gate. A preview is not an error.
func (e *Engine) gated(ctx context.Context, action gam.Action, confirm bool) *ToolResult {
	res := e.gate.Decide(ctx, action, confirm)
	if !res.Executed {
		return PreviewResult(res.Text)
	}
	if !res.Outcome.Success {
		return ErrorResult(res.Text)
	}
	return NewToolResult(res.Text)
}

func outcomeResult(out gam.Outcome, summary string) *ToolResult {
	if !out.Success {
		return ErrorResult(gam.Normalize(out))
	}
	return NewToolResult(gam.NormalizeWith(out, summary))
}

// invalidParams reports a failure caught before anything was executed.
func invalidParams(err error) *ToolResult {
	if errors.Is(err, gam.ErrNothingToUpdate) {
		return ErrorResult("Invalid parameters: nothing to update (supply at least one attribute to change)").WithError(err)
	}
	return ErrorResult(fmt.Sprintf("Invalid parameters: %v", err)).WithError(err)
}
