package gam

import (
	"context"
	"sync"
	"time"
)

// stubExecutor replays scripted outcomes and records every call.
type stubExecutor struct {
	mu       sync.Mutex
	outcomes []Outcome
	calls    []CommandLine
	timeouts []time.Duration
}

func (s *stubExecutor) Run(ctx context.Context, cmd CommandLine, timeout time.Duration) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, cmd)
	s.timeouts = append(s.timeouts, timeout)
	idx := len(s.calls) - 1
	if idx < len(s.outcomes) {
		return s.outcomes[idx]
	}
	return Outcome{Success: true, Kind: OutcomeOK, Command: cmd.String()}
}

func (s *stubExecutor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func mustBuild(cmd CommandLine, err error) CommandLine {
	if err != nil {
		panic(err)
	}
	return cmd
}
