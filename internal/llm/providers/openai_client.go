// File path: internal/llm/providers/openai_client.go
package providers

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v2"

	"github.com/ametcalf/busshift/internal/common"
)

// OpenAIProvider drives an OpenAI-compatible chat completion endpoint,
// including Azure-style proxies configured through a custom base URL.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

func NewOpenAIProvider(client openai.Client, model string) *OpenAIProvider {
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o"
	}
	logger := common.Logger()
	logger.Info("llm: OpenAI provider configured", "chat_model", model)
	return &OpenAIProvider{client: client, model: model}
}

func (o *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	logger := common.Logger()
	logger.Debug("llm: sending chat completion request", "model", o.model, "messages", len(messages))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Temperature: openai.Float(0),
	}
	for _, msg := range messages {
		switch strings.ToLower(msg.Role) {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case "assistant", "ai":
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("llm: chat completion failed", "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	logger.Debug("llm: chat completion succeeded")
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}
