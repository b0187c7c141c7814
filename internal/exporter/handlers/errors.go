package handlers

import (
	"context"
	"errors"
	"net/http"

	"design-exporter/internal/exporter/models"
	"design-exporter/internal/exporter/pipeline"
	"design-exporter/internal/exporter/store"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Error mapping
// ============================================================

var statusByCode = map[models.ErrorCode]int{
	models.ErrCodeSnapshotUnreadable: http.StatusUnprocessableEntity,
	models.ErrCodeCaptureUnavailable: http.StatusUnprocessableEntity,
	models.ErrCodeCaptureFailed:      http.StatusUnprocessableEntity,
	models.ErrCodeStructureParse:     http.StatusBadGateway,
	models.ErrCodeCodeGenParse:       http.StatusBadGateway,
	models.ErrCodeModelRequest:       http.StatusBadGateway,
	models.ErrCodeMissingCredential:  http.StatusServiceUnavailable,
	models.ErrCodePackaging:          http.StatusInternalServerError,
}

// statusFor переводит ошибку запуска в HTTP-статус.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrRoomNotFound), errors.Is(err, pipeline.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	if status, ok := statusByCode[models.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func errorResponse(c fiber.Ctx, err error, run string) error {
	body := fiber.Map{"error": err.Error()}
	var failure *pipeline.Failure
	if errors.As(err, &failure) {
		body["stage"] = failure.Stage
		body["error"] = failure.Err.Error()
	}
	if code := models.CodeOf(err); code != "" {
		body["code"] = code
	}
	if run != "" {
		body["run"] = run
		c.Set(RunHeader, run)
	}
	return c.Status(statusFor(err)).JSON(body)
}
