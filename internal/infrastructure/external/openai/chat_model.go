package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rohitpai/travel-desk/internal/application/port"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatModel implements port.ChatModel using the OpenAI chat completions API
type ChatModel struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewChatModel creates a new OpenAI-backed chat model
func NewChatModel(apiKey, model string, temperature float32, logger *zap.Logger) *ChatModel {
	return &ChatModel{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Complete runs one chat completion round-trip. An empty tools slice asks
// for a plain completion with tool calling disabled.
func (m *ChatModel) Complete(ctx context.Context, history []port.ChatMessage, tools []port.ToolDefinition) (*port.ChatCompletion, error) {
	req := openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: m.temperature,
		Messages:    toOpenAIMessages(history),
	}
	if len(tools) > 0 {
		req.Tools = toOpenAITools(tools)
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		m.logger.Error("OpenAI API call failed", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	choice := resp.Choices[0].Message
	completion := &port.ChatCompletion{Content: choice.Content}
	for _, call := range choice.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, port.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	m.logger.Debug("Chat completion received",
		zap.Int("tool_calls", len(completion.ToolCalls)),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)))

	return completion, nil
}

func toOpenAIMessages(history []port.ChatMessage) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		converted := openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			converted.ToolCalls = append(converted.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		messages = append(messages, converted)
	}
	return messages
}

func toOpenAITools(tools []port.ToolDefinition) []openai.Tool {
	converted := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		converted = append(converted, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  json.RawMessage(tool.Schema),
			},
		})
	}
	return converted
}

// Verify interface compliance
var _ port.ChatModel = (*ChatModel)(nil)
