package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/limehawk/gam-multi/pkg/logger"
)

// ToolRegistry is populated once at startup and then read concurrently.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool)}
}

// Register adds t. Registering the same name twice is a programming error and
// panics.
func (r *ToolRegistry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.tools[name]; exists {
		panic(fmt.Sprintf("tools: duplicate registration of %q", name))
	}
	r.tools[name] = t
}

func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the registered tools sorted by name.
func (r *ToolRegistry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (r *ToolRegistry) Names() []string {
	list := r.List()
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = t.Name()
	}
	return names
}

func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs the named tool and logs the call.
func (r *ToolRegistry) Execute(ctx context.Context, name string, args map[string]interface{}) *ToolResult {
	t, ok := r.Get(name)
	if !ok {
		logger.WarnCF("tool", "Unknown tool requested", map[string]interface{}{"tool": name})
		return ErrorResult(fmt.Sprintf("tool %q not found", name))
	}

	logger.InfoCF("tool", "Tool call", map[string]interface{}{
		"tool":        name,
		"destructive": IsDestructive(t),
	})
	start := time.Now()
	result := t.Execute(ctx, args)
	if result == nil {
		result = ErrorResult(fmt.Sprintf("tool %q returned no result", name))
	}

	fields := map[string]interface{}{
		"tool":        name,
		"duration_ms": time.Since(start).Milliseconds(),
		"is_error":    result.IsError,
	}
	if result.Err != nil {
		fields["error"] = result.Err.Error()
	}
	logger.InfoCF("tool", "Tool call finished", fields)
	return result
}
