package tools

import (
	"github.com/rohitpai/travel-desk/internal/application/port"
)

// Registry is the in-process tool registry handed to the chat orchestrator.
// Registration order is preserved so the model always sees a stable tool
// list.
type Registry struct {
	order []string
	tools map[string]port.Tool
}

// NewRegistry creates a registry holding the given tools
func NewRegistry(tools ...port.Tool) *Registry {
	r := &Registry{tools: make(map[string]port.Tool)}
	for _, tool := range tools {
		r.Register(tool)
	}
	return r
}

// Register adds or replaces a tool by its definition name
func (r *Registry) Register(tool port.Tool) {
	name := tool.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// List returns every registered tool definition in registration order
func (r *Registry) List() []port.ToolDefinition {
	defs := make([]port.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Get resolves a tool by name
func (r *Registry) Get(name string) (port.Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Verify interface compliance
var _ port.ToolRegistry = (*Registry)(nil)
