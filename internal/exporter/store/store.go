// Package store: доступ на чтение к живому хранилищу дизайна комнат.
// Хранилище принадлежит внешней системе совместного редактирования;
// конвейер экспорта только читает его и снимает с него снимки.
package store

import (
	"context"
	"errors"
	"time"

	"design-exporter/internal/exporter/models"
)

var ErrRoomNotFound = errors.New("room not found")

// Document: живое состояние дизайна комнаты. Слои хранятся по указателю:
// это ссылки на изменяемые данные хранилища, а не копии.
type Document struct {
	Room            string                   `json:"room"`
	Layers          map[string]*models.Layer `json:"layers"`
	LayerIDs        []string                 `json:"layerIds"`
	BackgroundColor *models.RGB              `json:"backgroundColor,omitempty"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// Store: аксессор хранилища дизайна. Read передаёт fn живой документ
// комнаты; документ валиден только внутри fn, и fn не должна его изменять.
type Store interface {
	Read(ctx context.Context, room string, fn func(doc *Document) error) error
	Save(ctx context.Context, doc *Document) error
	Ping(ctx context.Context) error
}
