package tools

import "context"

// Tool is one named operation exposed to callers.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, args map[string]interface{}) *ToolResult
}

// DestructiveTool is implemented by tools whose effect cannot be undone.
// Such tools accept a "confirm" argument and only preview without it.
type DestructiveTool interface {
	Tool
	Destructive() bool
}

func IsDestructive(t Tool) bool {
	d, ok := t.(DestructiveTool)
	return ok && d.Destructive()
}
