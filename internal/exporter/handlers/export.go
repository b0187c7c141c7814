package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"
	"design-exporter/internal/exporter/pipeline"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Export Handler
// ============================================================

// RunHeader несёт идентификатор запуска экспорта в ответе.
const RunHeader = "X-Export-Run"

type ExportHandler struct {
	ai       *pipeline.AIPipeline
	template *pipeline.TemplateRunner
	runs     *pipeline.Registry
}

func NewExportHandler(ai *pipeline.AIPipeline, template *pipeline.TemplateRunner, runs *pipeline.Registry) *ExportHandler {
	return &ExportHandler{
		ai:       ai,
		template: template,
		runs:     runs,
	}
}

type aiExportRequest struct {
	Surface string `json:"surface"`
}

// roomParam декодирует имя комнаты из пути: имена могут содержать пробелы.
func roomParam(c fiber.Ctx) (string, error) {
	room, err := url.PathUnescape(c.Params("room"))
	if err != nil {
		return "", err
	}
	room = strings.TrimSpace(room)
	if room == "" {
		return "", fmt.Errorf("room required")
	}
	return room, nil
}

// ExportTemplate собирает проект по шаблону и отдаёт архив.
func (h *ExportHandler) ExportTemplate(c fiber.Ctx) error {
	room, err := roomParam(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id := h.runs.Begin(room, "template")
	out, err := h.template.Run(c.Context(), pipeline.TemplateRequest{
		RunID:   id,
		Room:    room,
		Notify:  h.runs.Notifier(id),
		Observe: h.runs.Observer(id),
	})
	h.runs.Finish(id, out)
	if err != nil {
		return errorResponse(c, err, id)
	}
	return sendArchive(c, out.Archive, id)
}

// ExportAI проводит дизайн через модели. Тело запроса необязательно:
// {"surface": "<svg ...>"} передаёт разметку поверхности.
func (h *ExportHandler) ExportAI(c fiber.Ctx) error {
	room, err := roomParam(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var req aiExportRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}

	id := h.runs.Begin(room, "ai")
	logger.Info().Str("run", id).Str("room", room).Int("surface_bytes", len(req.Surface)).Msg("AI export requested")

	out, err := h.ai.Run(c.Context(), pipeline.AIRequest{
		RunID:   id,
		Room:    room,
		Surface: req.Surface,
		Notify:  h.runs.Notifier(id),
		Observe: h.runs.Observer(id),
	})
	h.runs.Finish(id, out)
	if err != nil {
		return errorResponse(c, err, id)
	}
	return sendArchive(c, out.Archive, id)
}

// GetRun возвращает статус запуска с уведомлениями и историей.
func (h *ExportHandler) GetRun(c fiber.Ctx) error {
	status, err := h.runs.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "")
	}
	return c.JSON(status)
}

func sendArchive(c fiber.Ctx, blob *models.ArchiveBlob, run string) error {
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, blob.Filename))
	c.Set(RunHeader, run)
	return c.Send(blob.Data)
}
