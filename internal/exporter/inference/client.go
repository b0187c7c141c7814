// Package inference выводит иерархию экранов и виджетов по снимку поверхности
// дизайна с помощью внешней модели зрения.
package inference

import (
	"context"
	"errors"
	"fmt"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"
)

// ============================================================
// Structure Inference Client
// ============================================================

// VisionRequest описывает один мультимодальный запрос, текст плюс изображение.
type VisionRequest struct {
	Prompt   string
	Image    []byte
	MIMEType string
}

// VisionModel: внешняя модель, отвечающая свободным текстом.
type VisionModel interface {
	Generate(ctx context.Context, req VisionRequest) (string, error)
}

type Client struct {
	model VisionModel
}

func NewClient(model VisionModel) *Client {
	return &Client{model: model}
}

// Infer делает ровно один вызов модели и разбирает ответ.
func (c *Client) Infer(ctx context.Context, bitmap *models.Bitmap, snap *models.Snapshot) (models.UIStructure, error) {
	if bitmap == nil || len(bitmap.Data) == 0 {
		return nil, models.NewError(models.ErrCodeCaptureFailed, "no bitmap to analyze", nil)
	}

	prompt, err := BuildPrompt(snap)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	text, err := c.model.Generate(ctx, VisionRequest{
		Prompt:   prompt,
		Image:    bitmap.Data,
		MIMEType: bitmap.MIMEType,
	})
	if err != nil {
		var ee *models.ExportError
		if errors.As(err, &ee) {
			return nil, err
		}
		return nil, models.NewError(models.ErrCodeModelRequest, "structure inference request", err)
	}

	structure, err := ParseStructure(text)
	if err != nil {
		logger.Error().Err(err).Str("raw", text).Msg("Structure inference response rejected")
		return nil, err
	}

	logger.Info().Int("views", len(structure)).Msg("UI structure inferred")
	return structure, nil
}
