// Package codegen превращает выведенную структуру UI в файлы проекта Flutter
// с помощью внешней модели генерации кода.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"
)

// ============================================================
// Code Generation Client
// ============================================================

type ChatRequest struct {
	System      string
	User        string
	Temperature float64
}

// ReplyPart: элемент структурированного ответа модели.
type ReplyPart struct {
	Type  string
	Text  string
	Value string
}

// Reply хранит ответ модели, либо строка, либо список частей.
type Reply struct {
	Text  string
	Parts []ReplyPart
}

// Raw возвращает ответ целиком для диагностики.
func (r *Reply) Raw() string {
	if r.Text != "" || len(r.Parts) == 0 {
		return r.Text
	}
	var b strings.Builder
	for _, p := range r.Parts {
		b.WriteString(p.Text)
		b.WriteString(p.Value)
	}
	return b.String()
}

// ChatModel: внешняя чат-модель.
type ChatModel interface {
	Complete(ctx context.Context, req ChatRequest) (*Reply, error)
}

type Client struct {
	model       ChatModel
	temperature float64
}

func NewClient(model ChatModel, temperature float64) *Client {
	return &Client{model: model, temperature: temperature}
}

// Generate делает один вызов модели. Файлы не додумываются: ответ, который
// не удалось починить, даёт CodeGenParseError.
func (c *Client) Generate(ctx context.Context, structure models.UIStructure) ([]models.GeneratedFile, error) {
	if len(structure) == 0 {
		return nil, models.NewError(models.ErrCodeStructureParse, "no views to generate code for", nil)
	}

	project := Annotate(structure)
	human, err := BuildHumanPrompt(project)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	reply, err := c.model.Complete(ctx, ChatRequest{
		System:      systemPrompt,
		User:        human,
		Temperature: c.temperature,
	})
	if err != nil {
		var ee *models.ExportError
		if errors.As(err, &ee) {
			return nil, err
		}
		return nil, models.NewError(models.ErrCodeModelRequest, "code generation request", err)
	}

	files, err := RepairReply(reply)
	if err != nil {
		logger.Error().Err(err).Str("raw", models.RawOf(err)).Msg("Code generation response rejected")
		return nil, err
	}

	logger.Info().
		Str("project", project.ProjectName).
		Int("files", len(files)).
		Int("components", len(project.Components)).
		Msg("Flutter sources generated")
	return files, nil
}
