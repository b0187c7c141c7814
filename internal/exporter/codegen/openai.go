package codegen

import (
	"context"
	"fmt"

	"design-exporter/internal/common/config"

	openai "github.com/sashabaranov/go-openai"
)

// ============================================================
// OpenAI adapter
// ============================================================

type OpenAIModel struct {
	model string
}

func NewOpenAIModel(model string) *OpenAIModel {
	return &OpenAIModel{model: model}
}

// Complete читает ключ в момент вызова: без ключа сетевой запрос не делается.
func (m *OpenAIModel) Complete(ctx context.Context, req ChatRequest) (*Reply, error) {
	key, err := config.Credential(config.OpenAIAPIKey)
	if err != nil {
		return nil, err
	}

	client := openai.NewClient(key)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: float32(req.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	msg := resp.Choices[0].Message
	reply := &Reply{Text: msg.Content}
	for _, part := range msg.MultiContent {
		reply.Parts = append(reply.Parts, ReplyPart{Type: string(part.Type), Text: part.Text})
	}
	return reply, nil
}
