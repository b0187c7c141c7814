package inference

import (
	"context"
	"fmt"
	"strings"

	"design-exporter/internal/common/config"

	"google.golang.org/genai"
)

// ============================================================
// Gemini adapter
// ============================================================

type GeminiModel struct {
	model string
}

func NewGeminiModel(model string) *GeminiModel {
	return &GeminiModel{model: model}
}

// Generate читает ключ в момент вызова: без ключа сетевой запрос не делается.
func (g *GeminiModel) Generate(ctx context.Context, req VisionRequest) (string, error) {
	key, err := config.Credential(config.GeminiAPIKey)
	if err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(req.Prompt),
		genai.NewPartFromBytes(req.Image, req.MIMEType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
