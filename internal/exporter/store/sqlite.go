package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"design-exporter/internal/exporter/models"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed migrations/001_init_rooms.sql
var initRoomsSQL string

// ============================================================
// SQLite Store
// ============================================================

// SQLiteStore хранит документы комнат в одной таблице; слои и порядок
// лежат JSON-колонками.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Init применяет миграции.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, initRoomsSQL); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context, room string, fn func(doc *Document) error) error {
	row := s.db.QueryRowContext(ctx, `
        SELECT room, background_color, layers, layer_ids, updated_at
        FROM rooms
        WHERE room = ?
    `, room)

	var (
		doc                      Document
		bg                       sql.NullString
		layersJSON, layerIDsJSON string
		updatedAt                int64
	)
	if err := row.Scan(&doc.Room, &bg, &layersJSON, &layerIDsJSON, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}

	if err := json.Unmarshal([]byte(layersJSON), &doc.Layers); err != nil {
		return fmt.Errorf("decode layers: %w", err)
	}
	if err := json.Unmarshal([]byte(layerIDsJSON), &doc.LayerIDs); err != nil {
		return fmt.Errorf("decode layer ids: %w", err)
	}
	if bg.Valid && bg.String != "" {
		var c models.RGB
		if err := json.Unmarshal([]byte(bg.String), &c); err != nil {
			return fmt.Errorf("decode background: %w", err)
		}
		doc.BackgroundColor = &c
	}
	doc.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return fn(&doc)
}

func (s *SQLiteStore) Save(ctx context.Context, doc *Document) error {
	layers, err := json.Marshal(doc.Layers)
	if err != nil {
		return fmt.Errorf("encode layers: %w", err)
	}
	ids := doc.LayerIDs
	if ids == nil {
		ids = []string{}
	}
	layerIDs, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode layer ids: %w", err)
	}
	var bg sql.NullString
	if doc.BackgroundColor != nil {
		data, err := json.Marshal(doc.BackgroundColor)
		if err != nil {
			return fmt.Errorf("encode background: %w", err)
		}
		bg = sql.NullString{String: string(data), Valid: true}
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO rooms (room, background_color, layers, layer_ids, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(room) DO UPDATE SET
            background_color = excluded.background_color,
            layers = excluded.layers,
            layer_ids = excluded.layer_ids,
            updated_at = excluded.updated_at
    `, doc.Room, bg, string(layers), string(layerIDs), doc.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("save room %s: %w", doc.Room, err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
