package tools

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limehawk/gam-multi/pkg/gam"
)

type stubExecutor struct {
	mu       sync.Mutex
	outcomes []gam.Outcome
	calls    []gam.CommandLine
	timeouts []time.Duration
	ops      []string
}

func (s *stubExecutor) Run(ctx context.Context, cmd gam.CommandLine, timeout time.Duration) gam.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, cmd)
	s.timeouts = append(s.timeouts, timeout)
	s.ops = append(s.ops, gam.OperationFrom(ctx))
	if i := len(s.calls) - 1; i < len(s.outcomes) {
		return s.outcomes[i]
	}
	return gam.Outcome{Success: true, Kind: gam.OutcomeOK}
}

var fixedNow = time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

func newTestRegistry(outcomes ...gam.Outcome) (*ToolRegistry, *stubExecutor) {
	stub := &stubExecutor{outcomes: outcomes}
	r := NewToolRegistry()
	RegisterGAMTools(r, NewEngine(stub, func() time.Time { return fixedNow }))
	return r, stub
}

func TestCatalogNames(t *testing.T) {
	r, _ := newTestRegistry()
	assert.Equal(t, []string{
		"add_group_member", "create_group", "create_org_unit", "create_user", "delete_user",
		"get_group_info", "get_org_unit", "get_user_info", "list_group_members", "list_groups",
		"list_org_units", "list_users", "move_user_to_ou", "offboard_user", "remove_group_member",
		"reset_password", "revoke_tokens", "run_gam", "sign_out_user", "suspend_user",
		"unsuspend_user", "update_user",
	}, r.Names())
}

func TestCatalogSchemas(t *testing.T) {
	r, _ := newTestRegistry()
	destructive := map[string]bool{
		"delete_user": true, "sign_out_user": true, "revoke_tokens": true, "run_gam": true, "offboard_user": true,
	}
	for _, tool := range r.List() {
		schema := tool.Parameters()
		assert.Equal(t, "object", schema["type"], tool.Name())
		props, ok := schema["properties"].(map[string]interface{})
		require.True(t, ok, tool.Name())
		assert.Contains(t, props, "timeout_seconds", tool.Name())
		_, hasConfirm := props["confirm"]
		assert.Equal(t, destructive[tool.Name()], hasConfirm, tool.Name())
		assert.Equal(t, destructive[tool.Name()], IsDestructive(tool), tool.Name())
		assert.NotEmpty(t, tool.Description(), tool.Name())
		if req, ok := schema["required"].([]string); ok {
			for _, name := range req {
				assert.Contains(t, props, name, "%s requires undeclared %s", tool.Name(), name)
			}
		}
	}
}

func TestDestructiveToolPreviewsWithoutConfirm(t *testing.T) {
	r, stub := newTestRegistry()

	res := r.Execute(context.Background(), "delete_user", map[string]interface{}{"email": "jane@example.com"})
	assert.False(t, res.IsError)
	assert.Contains(t, res.ForLLM, "PREVIEW: Permanently delete user jane@example.com")
	assert.Contains(t, res.ForLLM, "Command: gam delete user jane@example.com")
	assert.Contains(t, res.ForLLM, "confirm=true")
	assert.True(t, res.Preview)
	assert.Empty(t, stub.calls)
}

func TestDestructiveToolRunsWhenConfirmed(t *testing.T) {
	r, stub := newTestRegistry()

	res := r.Execute(context.Background(), "delete_user", map[string]interface{}{
		"email":           "jane@example.com",
		"confirm":         true,
		"timeout_seconds": float64(45),
	})
	assert.False(t, res.IsError)
	assert.Equal(t, "User jane@example.com has been deleted.", res.ForLLM)
	assert.False(t, res.Preview)
	require.Len(t, stub.calls, 1)
	assert.Equal(t, []string{"gam", "delete", "user", "jane@example.com"}, stub.calls[0].Args())
	assert.Equal(t, 45*time.Second, stub.timeouts[0])
	assert.Equal(t, "delete_user", stub.ops[0])
}

func TestUpdateUserWithoutAttributes(t *testing.T) {
	r, stub := newTestRegistry()

	res := r.Execute(context.Background(), "update_user", map[string]interface{}{"email": "jane@example.com"})
	assert.True(t, res.IsError)
	assert.Contains(t, res.ForLLM, "nothing to update")
	assert.Empty(t, stub.calls)
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want string
	}{
		{"unknown key", "get_user_info", map[string]interface{}{"email": "jane@example.com", "bogus": 1}, `unknown argument "bogus"`},
		{"confirm on safe tool", "suspend_user", map[string]interface{}{"email": "jane@example.com", "confirm": true}, `unknown argument "confirm"`},
		{"wrong type", "get_user_info", map[string]interface{}{"email": 42}, `argument "email" must be a string`},
		{"negative timeout", "get_user_info", map[string]interface{}{"email": "jane@example.com", "timeout_seconds": -5}, "non-negative integer"},
		{"huge timeout", "get_user_info", map[string]interface{}{"email": "jane@example.com", "timeout_seconds": float64(1e11)}, "must not exceed 86400"},
		{"fractional timeout", "get_user_info", map[string]interface{}{"email": "jane@example.com", "timeout_seconds": 1.5}, "non-negative integer"},
		{"missing email", "get_user_info", map[string]interface{}{}, "email is required"},
		{"bad role", "add_group_member", map[string]interface{}{"group_email": "team@example.com", "member_email": "jane@example.com", "role": "boss"}, "MEMBER, MANAGER, OWNER"},
		{"bad ou", "move_user_to_ou", map[string]interface{}{"email": "jane@example.com", "org_unit": "Sales"}, "start with /"},
		{"negative days", "list_users", map[string]interface{}{"inactive_days": float64(-3)}, "inactive_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stub := newTestRegistry()
			res := r.Execute(context.Background(), tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, res.ForLLM, tt.want)
			assert.True(t, gam.IsValidationError(res.Err), "err=%v", res.Err)
			assert.Empty(t, stub.calls)
		})
	}
}

func TestListUsersComposesFilters(t *testing.T) {
	r, stub := newTestRegistry(gam.Outcome{Success: true, Output: "primaryEmail\njohn@example.com\n"})

	res := r.Execute(context.Background(), "list_users", map[string]interface{}{
		"query":         "givenname:John",
		"inactive_days": float64(90),
		"suspended":     false,
		"active_only":   true,
	})
	require.False(t, res.IsError, res.ForLLM)
	assert.Equal(t, "primaryEmail\njohn@example.com", res.ForLLM)
	require.Len(t, stub.calls, 1)
	assert.Equal(t, []string{"gam", "print", "users", "query", "givenname:John lastLoginTime<2024-03-03", "issuspended", "false"}, stub.calls[0].Args())
}

func TestListUsersSuspendedHasNoDefault(t *testing.T) {
	r, stub := newTestRegistry()
	tool, ok := r.Get("list_users")
	require.True(t, ok)

	props := tool.Parameters()["properties"].(map[string]interface{})
	suspended := props["suspended"].(map[string]interface{})
	assert.Equal(t, "boolean", suspended["type"])
	assert.NotContains(t, suspended, "default")

	res := r.Execute(context.Background(), "list_users", map[string]interface{}{})
	require.False(t, res.IsError, res.ForLLM)
	require.Len(t, stub.calls, 1)
	assert.Equal(t, []string{"gam", "print", "users"}, stub.calls[0].Args())
}

func TestToolFailureIsNormalized(t *testing.T) {
	r, _ := newTestRegistry(gam.Outcome{ExitCode: 1, Error: "ERROR: Does not exist", Kind: gam.OutcomeToolError})

	res := r.Execute(context.Background(), "get_group_info", map[string]interface{}{"group_email": "ghost@example.com"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Error (exit code 1): ERROR: Does not exist", res.ForLLM)
}

func TestRunGAM(t *testing.T) {
	r, stub := newTestRegistry()

	res := r.Execute(context.Background(), "run_gam", map[string]interface{}{"command": "info domain"})
	assert.False(t, res.IsError)
	assert.Equal(t, "Command completed successfully (no output).", res.ForLLM)
	assert.False(t, res.Preview)
	require.Len(t, stub.calls, 1)
	assert.Equal(t, []string{"gam", "info", "domain"}, stub.calls[0].Args())

	res = r.Execute(context.Background(), "run_gam", map[string]interface{}{"command": "gam delete group team@example.com"})
	assert.False(t, res.IsError)
	assert.Contains(t, res.ForLLM, "PREVIEW:")
	assert.True(t, res.Preview)
	assert.Len(t, stub.calls, 1)

	res = r.Execute(context.Background(), "run_gam", map[string]interface{}{"command": "delete group team@example.com", "confirm": true})
	assert.False(t, res.IsError)
	assert.Len(t, stub.calls, 2)
}

func TestOffboardUser(t *testing.T) {
	r, stub := newTestRegistry(
		gam.Outcome{Success: true},
		gam.Outcome{ExitCode: 1, Error: "ERROR: token service unavailable"},
		gam.Outcome{Success: true},
	)

	preview := r.Execute(context.Background(), "offboard_user", map[string]interface{}{"email": "jane@example.com"})
	assert.False(t, preview.IsError)
	assert.Contains(t, preview.ForLLM, "PREVIEW: Offboard jane@example.com")
	assert.True(t, preview.Preview)
	assert.Empty(t, stub.calls)

	res := r.Execute(context.Background(), "offboard_user", map[string]interface{}{"email": "jane@example.com", "confirm": true})
	assert.True(t, res.IsError)
	assert.Contains(t, res.ForLLM, "Offboarding jane@example.com: 2/3 steps succeeded (partial)")
	assert.Contains(t, res.ForLLM, "[FAIL] revoke_tokens: Error (exit code 1): ERROR: token service unavailable")
	require.Len(t, stub.calls, 3)
	assert.Equal(t, []string{"sign_out_user", "revoke_tokens", "suspend_user"}, stub.ops)
}

func TestOffboardUserRejectsBadArchiveOU(t *testing.T) {
	r, stub := newTestRegistry()
	res := r.Execute(context.Background(), "offboard_user", map[string]interface{}{
		"email": "jane@example.com", "archive_ou": "Former", "confirm": true,
	})
	assert.True(t, res.IsError)
	assert.Empty(t, stub.calls)
}
