// Package server exposes the GAM tool registry and reference material over
// the Model Context Protocol.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/limehawk/gam-multi/pkg/logger"
	"github.com/limehawk/gam-multi/pkg/reference"
	"github.com/limehawk/gam-multi/pkg/tools"
)

const instructions = "Google Workspace directory administration through GAM. " +
	"Destructive tools (delete_user, sign_out_user, revoke_tokens, offboard_user and destructive run_gam commands) " +
	"return a preview first; call them again with confirm=true only after the operator approves. " +
	"Reference documents are available under gam://reference/."

type Options struct {
	Name     string
	Version  string
	Registry *tools.ToolRegistry
}

// New builds an MCP server with every registered tool, reference document
// and prompt.
func New(opts Options) (*mcp.Server, error) {
	if opts.Registry == nil {
		return nil, errors.New("server: tool registry is required")
	}
	s := mcp.NewServer(&mcp.Implementation{Name: opts.Name, Version: opts.Version}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	for _, t := range opts.Registry.List() {
		destructive := tools.IsDestructive(t)
		s.AddTool(&mcp.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
			Annotations: &mcp.ToolAnnotations{DestructiveHint: &destructive},
		}, toolHandler(opts.Registry, t.Name()))
	}

	for _, r := range reference.Resources() {
		s.AddResource(&mcp.Resource{
			URI:         r.URI,
			Name:        r.Name,
			Description: r.Description,
			MIMEType:    r.MIMEType,
		}, readResource)
	}

	prompts, err := reference.Prompts()
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	for _, p := range prompts {
		args := make([]*mcp.PromptArgument, 0, len(p.Arguments))
		for _, a := range p.Arguments {
			args = append(args, &mcp.PromptArgument{Name: a.Name, Description: a.Description, Required: a.Required})
		}
		s.AddPrompt(&mcp.Prompt{Name: p.Name, Description: p.Description, Arguments: args}, getPrompt)
	}

	logger.InfoCF("server", "MCP server configured", map[string]interface{}{
		"tools":     opts.Registry.Count(),
		"resources": len(reference.Resources()),
		"prompts":   len(prompts),
	})
	return s, nil
}

// Serve runs s over stdin/stdout until ctx is cancelled or the client hangs up.
func Serve(ctx context.Context, s *mcp.Server) error {
	logger.InfoC("server", "Serving MCP over stdio")
	return s.Run(ctx, &mcp.StdioTransport{})
}

func toolHandler(registry *tools.ToolRegistry, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]interface{}{}
		if raw := req.Params.Arguments; len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &args); err != nil {
				return textResult(fmt.Sprintf("Invalid parameters: arguments must be a JSON object (%v)", err), true), nil
			}
		}
		res := registry.Execute(ctx, name, args)
		return textResult(res.ForLLM, res.IsError), nil
	}
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}

func readResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	text, err := reference.Read(uri)
	if errors.Is(err, reference.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "text/markdown", Text: text}},
	}, nil
}

func getPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text, err := reference.Render(req.Params.Name, req.Params.Arguments)
	if err != nil {
		return nil, err
	}
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{{Role: "user", Content: &mcp.TextContent{Text: text}}},
	}, nil
}
