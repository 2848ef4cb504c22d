package gam

import (
	"fmt"
	"strings"
	"time"
)

// ExitCodeNotRun is the exit code of outcomes that never reached, or were cut
// short before, a normal process exit.
const ExitCodeNotRun = -1

// OutcomeKind classifies how a run ended.
type OutcomeKind string

const (
	OutcomeOK         OutcomeKind = "ok"
	OutcomeToolError  OutcomeKind = "tool_error"
	OutcomeNotFound   OutcomeKind = "not_found"
	OutcomeTimeout    OutcomeKind = "timeout"
	OutcomeCancelled  OutcomeKind = "cancelled"
	OutcomeStartError OutcomeKind = "start_error"
)

// Outcome is the result of one process run. Error is set iff !Success.
type Outcome struct {
	Success  bool
	Output   string
	Error    string
	ExitCode int
	Kind     OutcomeKind
	Command  string
	Duration time.Duration
}

const noOutputMessage = "Command completed successfully (no output)."

// Normalize converts an outcome into the caller-facing text. It never returns
// an empty string.
func Normalize(o Outcome) string {
	return NormalizeWith(o, "")
}

// NormalizeWith is Normalize with an optional success summary line placed
// before the command output.
func NormalizeWith(o Outcome, summary string) string {
	if !o.Success {
		msg := strings.TrimSpace(o.Error)
		if msg == "" {
			msg = "unknown error"
		}
		return fmt.Sprintf("Error (exit code %d): %s", o.ExitCode, msg)
	}

	summary = strings.TrimSpace(summary)
	output := strings.TrimRight(o.Output, "\r\n")
	switch {
	case summary != "" && strings.TrimSpace(output) != "":
		return summary + "\n" + output
	case summary != "":
		return summary
	case strings.TrimSpace(output) != "":
		return output
	default:
		return noOutputMessage
	}
}
