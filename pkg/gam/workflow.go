package gam

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoSteps is returned when a workflow is started without any step.
var ErrNoSteps = errors.New("workflow has no steps")

// WorkflowStep is one command of a multi-step workflow. Err holds the build
// error when the command could not be constructed; such a step is reported as
// failed without running anything.
type WorkflowStep struct {
	Name    string
	Command CommandLine
	Summary string
	Err     error
}

type StepReport struct {
	Name    string
	Success bool
	Detail  string
	// Invoked is false for steps that failed before reaching the executor.
	Invoked bool
	Outcome Outcome
}

type WorkflowStatus string

const (
	WorkflowSuccess WorkflowStatus = "success"
	WorkflowPartial WorkflowStatus = "partial"
	WorkflowFailure WorkflowStatus = "failure"
)

// WorkflowReport lists step results in declaration order.
type WorkflowReport struct {
	Title string
	Steps []StepReport
}

func (r WorkflowReport) Succeeded() int {
	n := 0
	for _, s := range r.Steps {
		if s.Success {
			n++
		}
	}
	return n
}

func (r WorkflowReport) Status() WorkflowStatus {
	ok := r.Succeeded()
	switch {
	case ok == len(r.Steps):
		return WorkflowSuccess
	case ok == 0:
		return WorkflowFailure
	default:
		return WorkflowPartial
	}
}

func (r WorkflowReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d/%d steps succeeded (%s)", r.Title, r.Succeeded(), len(r.Steps), r.Status())
	for _, s := range r.Steps {
		mark := "[OK]  "
		if !s.Success {
			mark = "[FAIL]"
		}
		fmt.Fprintf(&sb, "\n%s %s: %s", mark, s.Name, s.Detail)
	}
	return sb.String()
}

// Orchestrator runs workflow steps one after another. A failing step never
// stops the steps after it.
type Orchestrator struct {
	executor Executor
}

func NewOrchestrator(executor Executor) *Orchestrator {
	return &Orchestrator{executor: executor}
}

func (o *Orchestrator) Run(ctx context.Context, title string, steps []WorkflowStep, timeout time.Duration) (WorkflowReport, error) {
	if len(steps) == 0 {
		return WorkflowReport{}, ErrNoSteps
	}
	report := WorkflowReport{Title: title, Steps: make([]StepReport, 0, len(steps))}
	for _, step := range steps {
		if step.Err != nil {
			report.Steps = append(report.Steps, StepReport{
				Name:   step.Name,
				Detail: "invalid parameters: " + step.Err.Error(),
			})
			continue
		}
		out := o.executor.Run(WithOperation(ctx, step.Name), step.Command, timeout)
		report.Steps = append(report.Steps, StepReport{
			Name:    step.Name,
			Success: out.Success,
			Detail:  stepDetail(out, step.Summary),
			Invoked: true,
			Outcome: out,
		})
	}
	return report, nil
}

func stepDetail(out Outcome, summary string) string {
	if out.Success && strings.TrimSpace(summary) != "" {
		return strings.TrimSpace(summary)
	}
	return strings.Join(strings.Fields(Normalize(out)), " ")
}

// OffboardSteps returns the offboarding sequence for email: sign out, revoke
// tokens, suspend and, when archiveOU is set, move to that OU.
func OffboardSteps(email, archiveOU string) []WorkflowStep {
	signOut, err := BuildSignOut(email)
	steps := []WorkflowStep{
		{Name: "sign_out_user", Command: signOut, Summary: "All sessions signed out", Err: err},
	}
	revoke, err := BuildRevokeTokens(email)
	steps = append(steps, WorkflowStep{Name: "revoke_tokens", Command: revoke, Summary: "OAuth tokens and app passwords revoked", Err: err})
	suspend, err := BuildSuspendUser(email)
	steps = append(steps, WorkflowStep{Name: "suspend_user", Command: suspend, Summary: "Account suspended", Err: err})
	if strings.TrimSpace(archiveOU) != "" {
		move, err := BuildMoveUser(email, archiveOU)
		steps = append(steps, WorkflowStep{Name: "move_user_to_ou", Command: move, Summary: "Moved to " + strings.TrimSpace(archiveOU), Err: err})
	}
	return steps
}
