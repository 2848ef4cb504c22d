package server

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limehawk/gam-multi/pkg/gam"
	"github.com/limehawk/gam-multi/pkg/tools"
)

type countingExecutor struct {
	calls int
}

func (e *countingExecutor) Run(ctx context.Context, cmd gam.CommandLine, timeout time.Duration) gam.Outcome {
	e.calls++
	return gam.Outcome{Success: true, Output: "ran: " + cmd.String(), Kind: gam.OutcomeOK}
}

func connect(t *testing.T) (*mcp.ClientSession, *countingExecutor) {
	t.Helper()
	exec := &countingExecutor{}
	registry := tools.NewToolRegistry()
	tools.RegisterGAMTools(registry, tools.NewEngine(exec, nil))

	srv, err := New(Options{Name: "gam-mcp", Version: "test", Registry: registry})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs, exec
}

func TestListTools(t *testing.T) {
	cs, _ := connect(t)
	res, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	assert.Len(t, res.Tools, 22)

	var found bool
	for _, tool := range res.Tools {
		if tool.Name == "delete_user" {
			found = true
			require.NotNil(t, tool.Annotations)
			require.NotNil(t, tool.Annotations.DestructiveHint)
			assert.True(t, *tool.Annotations.DestructiveHint)
		}
	}
	assert.True(t, found)
}

func TestCallTool(t *testing.T) {
	cs, exec := connect(t)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_user_info",
		Arguments: map[string]any{"email": "jane@example.com"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "ran: gam info user jane@example.com", text.Text)
	assert.Equal(t, 1, exec.calls)

	res, err = cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "delete_user",
		Arguments: map[string]any{"email": "jane@example.com"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text = res.Content[0].(*mcp.TextContent)
	assert.Contains(t, text.Text, "PREVIEW:")
	assert.Equal(t, 1, exec.calls)

	res, err = cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "update_user",
		Arguments: map[string]any{"email": "jane@example.com"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestReadResourceAndPrompt(t *testing.T) {
	cs, _ := connect(t)

	rr, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "gam://reference/query-syntax"})
	require.NoError(t, err)
	require.Len(t, rr.Contents, 1)
	assert.Contains(t, rr.Contents[0].Text, "lastLoginTime<")

	_, err = cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "gam://reference/missing"})
	assert.Error(t, err)

	pr, err := cs.GetPrompt(context.Background(), &mcp.GetPromptParams{
		Name:      "group_membership_review",
		Arguments: map[string]string{"group_email": "team@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, pr.Messages, 1)
	msg, ok := pr.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "team@example.com")
}
