package gam

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const confirmNotice = "This action is destructive and cannot be undone. Re-run with confirm=true to execute."

// Action is a destructive operation waiting on the confirmation gate.
type Action struct {
	Name        string
	Description string
	Command     CommandLine
	// Summary is prepended to the output when the action succeeds.
	Summary string
	Timeout time.Duration
}

// Gate previews destructive actions until the caller confirms them.
type Gate struct {
	executor Executor
}

func NewGate(executor Executor) *Gate {
	return &Gate{executor: executor}
}

// GateResult is the text returned to the caller plus the outcome when the
// action actually ran.
type GateResult struct {
	Text     string
	Executed bool
	Outcome  Outcome
}

// Run executes action only when confirm is true. Otherwise it returns a
// preview and the executor is never called.
func (g *Gate) Run(ctx context.Context, action Action, confirm bool) string {
	return g.Decide(ctx, action, confirm).Text
}

func (g *Gate) Decide(ctx context.Context, action Action, confirm bool) GateResult {
	if !confirm {
		return GateResult{Text: Preview(action)}
	}
	out := g.executor.Run(ctx, action.Command, action.Timeout)
	return GateResult{Text: NormalizeWith(out, action.Summary), Executed: true, Outcome: out}
}

// Preview renders the deterministic confirmation request for action.
func Preview(action Action) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PREVIEW: %s\n", previewDescription(action.Name, action.Description))
	fmt.Fprintf(&sb, "Command: %s\n", action.Command.WithLaunchToken().String())
	sb.WriteString(confirmNotice)
	return sb.String()
}

// PreviewWorkflow renders every step of a destructive workflow without running
// any of them.
func PreviewWorkflow(description string, steps []WorkflowStep) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PREVIEW: %s\n", strings.TrimSpace(description))
	sb.WriteString("Steps:\n")
	for i, step := range steps {
		if step.Err != nil {
			fmt.Fprintf(&sb, "  %d. %s: (invalid: %v)\n", i+1, step.Name, step.Err)
			continue
		}
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, step.Name, step.Command.WithLaunchToken().String())
	}
	sb.WriteString(confirmNotice)
	return sb.String()
}

func previewDescription(name, description string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return name
}
