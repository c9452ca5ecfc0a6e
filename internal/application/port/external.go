package port

import (
	"context"
	"encoding/json"
)

// Chat message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage is one entry in a session's message history
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a model-requested tool invocation. Arguments arrive as the raw
// string emitted by the model; parsing happens once at the orchestrator
// boundary.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolArgs is the parsed form of a tool call's arguments: structured when
// the raw payload was valid JSON, otherwise the raw string passes through.
type ToolArgs struct {
	Structured map[string]interface{}
	Raw        string
}

// ParseToolArgs parses a raw argument payload, tolerating parse failure.
func ParseToolArgs(raw string) ToolArgs {
	var structured map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &structured); err == nil {
		return ToolArgs{Structured: structured}
	}
	return ToolArgs{Raw: raw}
}

// String returns the string value of an argument, or "" when absent
func (a ToolArgs) String(key string) string {
	if a.Structured == nil {
		return ""
	}
	if v, ok := a.Structured[key].(string); ok {
		return v
	}
	return ""
}

// Float returns the numeric value of an argument, or 0 when absent.
// JSON numbers decode as float64.
func (a ToolArgs) Float(key string) float64 {
	if a.Structured == nil {
		return 0
	}
	if v, ok := a.Structured[key].(float64); ok {
		return v
	}
	return 0
}

// ToolDefinition describes one callable tool to the model
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema"`
}

// Tool is an external callable capability invoked by name
type Tool interface {
	Definition() ToolDefinition
	Invoke(ctx context.Context, args ToolArgs) (interface{}, error)
}

// ToolRegistry resolves tools by name
type ToolRegistry interface {
	List() []ToolDefinition
	Get(name string) (Tool, bool)
}

// ChatCompletion is one model round-trip result: either a direct reply or a
// set of tool-call requests
type ChatCompletion struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatModel is the language model collaborator. An empty tools slice asks
// for a plain, tool-free completion.
type ChatModel interface {
	Complete(ctx context.Context, history []ChatMessage, tools []ToolDefinition) (*ChatCompletion, error)
}
