package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xqm32/guyubot/pkg/logger"
	"github.com/xqm32/guyubot/pkg/providers"
)

type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewToolRegistry(tools ...Tool) *ToolRegistry {
	r := &ToolRegistry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds tool, replacing any tool with the same name.
func (r *ToolRegistry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

func (r *ToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs the named tool. Unknown tools and panics come back as error
// results so the model can recover.
func (r *ToolRegistry) Execute(ctx context.Context, name string, args map[string]any) (result *ToolResult) {
	tool, ok := r.Get(name)
	if !ok {
		logger.WarnCF("tool", "Tool not found", map[string]any{"tool": name})
		return ErrorResult(fmt.Sprintf("tool %q not found", name)).WithError(fmt.Errorf("tool not found"))
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorCF("tool", "Tool panicked", map[string]any{
				"tool":  name,
				"panic": fmt.Sprint(rec),
			})
			result = ErrorResult(fmt.Sprintf("tool %q failed", name)).WithError(fmt.Errorf("panic: %v", rec))
		}
	}()

	result = tool.Execute(ctx, args)
	if result == nil {
		result = NewToolResult("")
	}
	fields := map[string]any{"tool": name, "result_chars": len(result.ForLLM)}
	if result.IsError {
		if result.Err != nil {
			fields["error"] = result.Err.Error()
		}
		logger.WarnCF("tool", "Tool returned error", fields)
	} else {
		logger.DebugCF("tool", "Tool executed", fields)
	}
	return result
}

func (r *ToolRegistry) sortedToolNames() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToProviderDefs returns the tool definitions in name order so requests are
// stable across runs.
func (r *ToolRegistry) ToProviderDefs() []providers.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.sortedToolNames()
	defs := make([]providers.ToolDefinition, 0, len(names))
	for _, name := range names {
		tool := r.tools[name]
		defs = append(defs, providers.ToolDefinition{
			Type: "function",
			Function: providers.ToolFunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return defs
}
