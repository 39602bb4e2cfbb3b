package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rooms (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	host_id TEXT NOT NULL REFERENCES users(id),
	status TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS memberships (
	id TEXT PRIMARY KEY,
	room_id TEXT NOT NULL REFERENCES rooms(id),
	user_id TEXT NOT NULL REFERENCES users(id),
	role TEXT NOT NULL,
	capabilities INTEGER NOT NULL,
	joined_at INTEGER NOT NULL,
	UNIQUE (room_id, user_id)
);

CREATE TABLE IF NOT EXISTS queue_items (
	id TEXT PRIMARY KEY,
	room_id TEXT NOT NULL REFERENCES rooms(id),
	position INTEGER NOT NULL,
	track_id TEXT NOT NULL,
	title TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	thumb_url TEXT,
	added_by TEXT NOT NULL REFERENCES users(id),
	status TEXT NOT NULL,
	enqueued_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_queue_items_room ON queue_items(room_id, status, position);

CREATE TABLE IF NOT EXISTS votes (
	id TEXT PRIMARY KEY,
	queue_item_id TEXT NOT NULL REFERENCES queue_items(id),
	user_id TEXT NOT NULL REFERENCES users(id),
	type TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE (queue_item_id, user_id, type)
);
`

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection keeps :memory: databases coherent and serializes
	// writers, which sqlite wants anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
