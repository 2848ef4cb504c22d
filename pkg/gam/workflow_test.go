package gam

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestratorContinuesAfterFailure(t *testing.T) {
	stub := &stubExecutor{outcomes: []Outcome{
		{Success: true},
		{ExitCode: 1, Error: "ERROR: token service unavailable"},
		{Success: true},
	}}
	steps := []WorkflowStep{
		{Name: "sign_out_user", Command: mustBuild(BuildSignOut("jane@example.com")), Summary: "signed out"},
		{Name: "revoke_tokens", Command: mustBuild(BuildRevokeTokens("jane@example.com"))},
		{Name: "suspend_user", Command: mustBuild(BuildSuspendUser("jane@example.com")), Summary: "suspended"},
	}

	report, err := NewOrchestrator(stub).Run(context.Background(), "Offboarding jane@example.com", steps, time.Minute)
	require.NoError(t, err)

	require.Len(t, report.Steps, 3)
	assert.Equal(t, 3, stub.callCount())
	assert.Equal(t, "suspend_user", report.Steps[2].Name)
	assert.True(t, report.Steps[2].Invoked)
	assert.Equal(t, []string{"gam", "update", "user", "jane@example.com", "suspended", "on"}, stub.calls[2].Args())
	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, WorkflowPartial, report.Status())

	want := "Offboarding jane@example.com: 2/3 steps succeeded (partial)\n" +
		"[OK]   sign_out_user: signed out\n" +
		"[FAIL] revoke_tokens: Error (exit code 1): ERROR: token service unavailable\n" +
		"[OK]   suspend_user: suspended"
	assert.Equal(t, want, report.String())
}

func TestOrchestratorNoSteps(t *testing.T) {
	_, err := NewOrchestrator(&stubExecutor{}).Run(context.Background(), "empty", nil, time.Minute)
	assert.True(t, errors.Is(err, ErrNoSteps))
}

func TestOrchestratorRecordsBuildErrorsWithoutRunning(t *testing.T) {
	stub := &stubExecutor{}
	report, err := NewOrchestrator(stub).Run(context.Background(), "Offboarding nobody", OffboardSteps("not-an-email", ""), time.Minute)
	require.NoError(t, err)

	assert.Zero(t, stub.callCount())
	require.Len(t, report.Steps, 3)
	for _, s := range report.Steps {
		assert.False(t, s.Success)
		assert.False(t, s.Invoked)
		assert.Contains(t, s.Detail, "invalid parameters")
	}
	assert.Equal(t, WorkflowFailure, report.Status())
}

func TestOffboardSteps(t *testing.T) {
	steps := OffboardSteps("jane@example.com", "")
	require.Len(t, steps, 3)
	assert.Equal(t, []string{"sign_out_user", "revoke_tokens", "suspend_user"}, stepNames(steps))

	steps = OffboardSteps("jane@example.com", "/Archive")
	require.Len(t, steps, 4)
	assert.Equal(t, `gam update user jane@example.com org "/Archive"`, steps[3].Command.String())

	steps = OffboardSteps("jane@example.com", "Archive")
	require.Len(t, steps, 4)
	assert.Error(t, steps[3].Err)
}

func stepNames(steps []WorkflowStep) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name
	}
	return out
}
