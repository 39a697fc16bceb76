package generator

import (
	"context"
	"fmt"
	"slowpoke/internal/core/domain"
	"strings"

	"github.com/revrost/go-openrouter"
)

const DefaultOpenRouterModel = "google/gemini-2.0-flash-001"

type openRouterClient interface {
	CreateChatCompletion(ctx context.Context,
		request openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
}

// OpenRouter is a TextGenerator backed by the OpenRouter chat completion API.
type OpenRouter struct {
	client openRouterClient
	model  string
}

func NewOpenRouter(apiKey, model string) *OpenRouter {
	if model == "" {
		model = DefaultOpenRouterModel
	}

	return &OpenRouter{
		model: model,
		client: openrouter.NewClient(
			apiKey,
			openrouter.WithXTitle("slowpoke"),
		),
	}
}

func (o *OpenRouter) GenerateText(ctx context.Context, prompt domain.Prompt) (string, error) {
	messages := make([]openrouter.ChatCompletionMessage, 0, 2)

	if prompt.SystemInstruction != "" {
		messages = append(messages, openrouter.ChatCompletionMessage{
			Role:    openrouter.ChatMessageRoleSystem,
			Content: openrouter.Content{Text: prompt.SystemInstruction},
		})
	}

	messages = append(messages, openrouter.ChatCompletionMessage{
		Role:    openrouter.ChatMessageRoleUser,
		Content: openrouter.Content{Text: prompt.Body},
	})

	resp, err := o.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openrouter API error: %w", domain.ErrServiceUnavailable, err)
	}

	sb := &strings.Builder{}
	for _, choice := range resp.Choices {
		sb.WriteString(choice.Message.Content.Text)
	}

	return sb.String(), nil
}
