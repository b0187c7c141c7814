package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/capture"
	"design-exporter/internal/exporter/models"
	"design-exporter/internal/exporter/snapshot"
	"design-exporter/internal/exporter/store"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Design Handler
// ============================================================

// DesignHandler принимает состояние дизайна от редактора и отдаёт
// серверную поверхность для захвата.
type DesignHandler struct {
	designs   store.Store
	snapshots *snapshot.Extractor
}

func NewDesignHandler(designs store.Store, snapshots *snapshot.Extractor) *DesignHandler {
	return &DesignHandler{designs: designs, snapshots: snapshots}
}

// PutDesign сохраняет документ дизайна комнаты целиком.
func (h *DesignHandler) PutDesign(c fiber.Ctx) error {
	room, err := roomParam(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var doc store.Document
	if err := json.Unmarshal(c.Body(), &doc); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	doc.Room = room
	doc.UpdatedAt = time.Now().UTC()
	if doc.Layers == nil {
		doc.Layers = map[string]*models.Layer{}
	}

	if err := h.designs.Save(c.Context(), &doc); err != nil {
		logger.Error().Err(err).Str("room", room).Msg("Design save failed")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save design"})
	}

	logger.Info().Str("room", room).Int("layers", len(doc.LayerIDs)).Msg("Design saved")
	return c.Status(http.StatusNoContent).Send(nil)
}

// GetSurface отдаёт разметку поверхности, отрисованную из снимка комнаты.
func (h *DesignHandler) GetSurface(c fiber.Ctx) error {
	room, err := roomParam(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	snap, err := h.snapshots.Extract(c.Context(), room)
	if err != nil {
		return errorResponse(c, err, "")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(capture.RenderSurface(snap))
}
