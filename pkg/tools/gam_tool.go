package tools

import (
	"context"
	"time"

	"github.com/limehawk/gam-multi/pkg/gam"
)

// call carries one invocation's own arguments and the shared options.
type call struct {
	args    map[string]interface{}
	timeout time.Duration
	confirm bool
}

func (c call) decode(dst interface{}) error {
	return decodeArgs(c.args, dst)
}

// gamTool is a catalog entry backed by the GAM engine.
type gamTool struct {
	name        string
	description string
	properties  map[string]interface{}
	required    []string
	destructive bool
	run         func(ctx context.Context, c call) *ToolResult
}

func (t *gamTool) Name() string        { return t.name }
func (t *gamTool) Description() string { return t.description }
func (t *gamTool) Destructive() bool   { return t.destructive }

func (t *gamTool) Parameters() map[string]interface{} {
	return objectSchema(t.properties, t.required, t.destructive)
}

func (t *gamTool) Execute(ctx context.Context, args map[string]interface{}) *ToolResult {
	rest, opts, err := splitArgs(args, t.destructive)
	if err != nil {
		return invalidParams(err)
	}
	ctx = gam.WithOperation(ctx, t.name)
	return t.run(ctx, call{args: rest, timeout: opts.timeout, confirm: opts.confirm})
}

// runBuilt decodes the arguments into T, builds the command and runs it.
func runBuilt[T any](ctx context.Context, e *Engine, c call, build func(T) (gam.CommandLine, error), summary func(T) string) *ToolResult {
	var opts T
	if err := c.decode(&opts); err != nil {
		return invalidParams(err)
	}
	cmd, err := build(opts)
	if err != nil {
		return invalidParams(err)
	}
	s := ""
	if summary != nil {
		s = summary(opts)
	}
	return e.run(ctx, cmd, c.timeout, s)
}

// gateBuilt is runBuilt for destructive operations.
func gateBuilt[T any](ctx context.Context, e *Engine, c call, name string, build func(T) (gam.CommandLine, error), describe, summary func(T) string) *ToolResult {
	var opts T
	if err := c.decode(&opts); err != nil {
		return invalidParams(err)
	}
	cmd, err := build(opts)
	if err != nil {
		return invalidParams(err)
	}
	return e.gated(ctx, gam.Action{
		Name:        name,
		Description: describe(opts),
		Command:     cmd,
		Summary:     summary(opts),
		Timeout:     c.timeout,
	}, c.confirm)
}

type emailArgs struct {
	Email string `json:"email"`
}

type groupArgs struct {
	GroupEmail string `json:"group_email"`
}

type pathArgs struct {
	Path string `json:"path"`
}
