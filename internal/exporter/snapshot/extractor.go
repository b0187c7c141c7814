// Package snapshot снимает неизменяемую копию дизайна комнаты из живого хранилища.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"
	"design-exporter/internal/exporter/store"
)

// ============================================================
// Snapshot Extractor
// ============================================================

type Extractor struct {
	store store.Store
	now   func() time.Time
}

func NewExtractor(s store.Store) *Extractor {
	return &Extractor{store: s, now: time.Now}
}

// Extract делает глубокую копию документа комнаты. Все копирование
// происходит внутри Read, поэтому снимок не разделяет память с хранилищем.
func (e *Extractor) Extract(ctx context.Context, room string) (*models.Snapshot, error) {
	var snap *models.Snapshot

	err := e.store.Read(ctx, room, func(doc *store.Document) error {
		var err error
		snap, err = e.freeze(room, doc)
		return err
	})
	if err != nil {
		var ee *models.ExportError
		if errors.As(err, &ee) {
			return nil, err
		}
		return nil, models.NewError(models.ErrCodeSnapshotUnreadable,
			fmt.Sprintf("read design of room %q", room), err)
	}
	return snap, nil
}

func (e *Extractor) freeze(room string, doc *store.Document) (*models.Snapshot, error) {
	snap := &models.Snapshot{
		Layers:          make(map[string]models.Layer, len(doc.Layers)),
		LayerIDs:        make([]string, 0, len(doc.LayerIDs)),
		BackgroundColor: models.White,
		RoomName:        room,
		ExportedAt:      e.now().UTC(),
	}
	if doc.BackgroundColor != nil {
		snap.BackgroundColor = doc.BackgroundColor.Clamped()
	}

	skipped := make(map[string]struct{})
	for id, layer := range doc.Layers {
		if layer == nil {
			return nil, models.NewError(models.ErrCodeSnapshotUnreadable,
				fmt.Sprintf("layer %q is empty", id), nil)
		}
		if !layer.Type.Supported() {
			skipped[id] = struct{}{}
			logger.Warn().Str("room", room).Str("layer", id).Str("type", string(layer.Type)).
				Msg("Dropping unsupported layer from snapshot")
			continue
		}
		clone := layer.Clone()
		clone.ID = id
		snap.Layers[id] = clone
	}

	for _, id := range doc.LayerIDs {
		if _, ok := skipped[id]; ok {
			continue
		}
		snap.LayerIDs = append(snap.LayerIDs, id)
	}

	if err := snap.Validate(); err != nil {
		return nil, models.NewError(models.ErrCodeSnapshotUnreadable, "inconsistent design store", err)
	}
	return snap, nil
}
