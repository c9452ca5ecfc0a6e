package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
)

// Tool names the orchestrator watches for booking completion
const (
	ToolBookFlight = "book_flight"
	ToolBookHotel  = "book_hotel"
)

// ChatRequest is one inbound user message for the HR booking assistant
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	IndentID  string `json:"indent_id,omitempty"`
}

// ChatResult is the outcome of one orchestration turn
type ChatResult struct {
	Response        string   `json:"response"`
	SessionID       string   `json:"session_id"`
	ToolsUsed       []string `json:"tools_used"`
	BookingComplete bool     `json:"booking_complete"`
}

// ChatService drives the tool-calling conversation loop for HR bookings
type ChatService interface {
	// Chat runs one orchestration turn: message in, final response out,
	// executing any tool calls the model requests in between.
	Chat(ctx context.Context, req ChatRequest) (*ChatResult, error)

	Sessions() *SessionStore
}

type chatServiceImpl struct {
	sessions     *SessionStore
	indents      IndentService
	model        port.ChatModel
	tools        port.ToolRegistry
	modelTimeout time.Duration
	toolTimeout  time.Duration
	logger       Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	sessions *SessionStore,
	indents IndentService,
	model port.ChatModel,
	tools port.ToolRegistry,
	modelTimeout time.Duration,
	toolTimeout time.Duration,
	logger Logger,
) ChatService {
	return &chatServiceImpl{
		sessions:     sessions,
		indents:      indents,
		model:        model,
		tools:        tools,
		modelTimeout: modelTimeout,
		toolTimeout:  toolTimeout,
		logger:       logger,
	}
}

func (s *chatServiceImpl) Sessions() *SessionStore {
	return s.sessions
}

// Chat runs one orchestration turn. History mutates in place and is the only
// persisted record of the conversation.
func (s *chatServiceImpl) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	s.sessions.Sweep()

	session := s.sessions.GetOrCreate(req.SessionID)
	if err := session.BeginTurn(); err != nil {
		return nil, err
	}
	defer session.EndTurn()

	// Bind the indent snapshot once for the session's life.
	if req.IndentID != "" && session.Indent == nil {
		indent, err := s.indents.GetByID(ctx, req.IndentID)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			return nil, err
		}
		session.Indent = indent
	}

	session.History = append(session.History, port.ChatMessage{
		Role:    port.RoleUser,
		Content: BuildContextMessage(req.Message, session.Indent),
	})

	// First pass: the model decides whether tools are needed.
	first, err := s.complete(ctx, session.History, s.tools.List())
	if err != nil {
		return nil, err
	}

	result := &ChatResult{SessionID: session.ID, ToolsUsed: []string{}}

	if len(first.ToolCalls) == 0 {
		session.History = append(session.History, port.ChatMessage{
			Role:    port.RoleAssistant,
			Content: first.Content,
		})
		result.Response = first.Content
		return result, nil
	}

	session.History = append(session.History, port.ChatMessage{
		Role:      port.RoleAssistant,
		Content:   first.Content,
		ToolCalls: first.ToolCalls,
	})

	for _, call := range first.ToolCalls {
		session.History = append(session.History, s.executeToolCall(ctx, call, result))
	}

	// Second pass is tool-free so the model cannot loop back into more
	// tool calls.
	final, err := s.complete(ctx, session.History, nil)
	if err != nil {
		return nil, err
	}
	session.History = append(session.History, port.ChatMessage{
		Role:    port.RoleAssistant,
		Content: final.Content,
	})
	result.Response = final.Content

	if contains(result.ToolsUsed, ToolBookFlight) && contains(result.ToolsUsed, ToolBookHotel) {
		result.BookingComplete = true
		if session.Indent != nil {
			if err := s.markBookingComplete(ctx, session.Indent.IndentID); err != nil {
				// The external bookings already happened; surface the
				// failure loudly for manual reconciliation instead of
				// swallowing it.
				s.logger.Error("Booking completed externally but status update failed",
					"error", err,
					"indent_id", session.Indent.IndentID,
					"tools_used", result.ToolsUsed)
				return nil, err
			}
			session.Indent.Status = status.StatusCompletedHR
		}
	}

	return result, nil
}

func (s *chatServiceImpl) complete(ctx context.Context, history []port.ChatMessage, tools []port.ToolDefinition) (*port.ChatCompletion, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	completion, err := s.model.Complete(callCtx, history, tools)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: model call", entity.ErrUpstreamTimeout)
		}
		return nil, err
	}
	return completion, nil
}

// executeToolCall runs one requested tool and returns its tool-result
// message. Failures become inline error payloads so the remaining calls in
// the turn still run.
func (s *chatServiceImpl) executeToolCall(ctx context.Context, call port.ToolCall, result *ChatResult) port.ChatMessage {
	tool, ok := s.tools.Get(call.Name)
	if !ok {
		err := fmt.Errorf("%w: %s", entity.ErrToolNotFound, call.Name)
		s.logger.Error("Requested tool not registered", "tool", call.Name)
		return toolResult(call.ID, map[string]string{"error": err.Error()})
	}

	callCtx, cancel := context.WithTimeout(ctx, s.toolTimeout)
	defer cancel()

	out, err := tool.Invoke(callCtx, port.ParseToolArgs(call.Arguments))
	if err != nil {
		s.logger.Error("Tool invocation failed", "tool", call.Name, "error", err)
		return toolResult(call.ID, map[string]string{"error": err.Error()})
	}

	result.ToolsUsed = append(result.ToolsUsed, call.Name)
	return toolResult(call.ID, out)
}

func (s *chatServiceImpl) markBookingComplete(ctx context.Context, indentID string) error {
	affected, err := s.indents.UpdateStatus(ctx, indentID, status.StatusCompletedHR.String())
	if err != nil {
		return err
	}
	if !affected {
		return fmt.Errorf("%w: travel indent %s", entity.ErrNotFound, indentID)
	}
	return nil
}

func toolResult(callID string, payload interface{}) port.ChatMessage {
	content, err := json.Marshal(payload)
	if err != nil {
		content = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	return port.ChatMessage{
		Role:       port.RoleTool,
		ToolCallID: callID,
		Content:    string(content),
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
