package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SqliteStore persists saves and the leaderboard in a single SQLite file.
// It suits single-host deployments that want durability without running
// PostgreSQL.
type SqliteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saves (
    device_id  TEXT PRIMARY KEY,
    blob       BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS leaderboard (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    device_id      TEXT NOT NULL,
    name           TEXT NOT NULL,
    level          INTEGER NOT NULL,
    depth          INTEGER NOT NULL,
    monsters_slain INTEGER NOT NULL,
    gold           INTEGER NOT NULL,
    outcome        TEXT NOT NULL,
    recorded_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS leaderboard_recorded_at_idx ON leaderboard (recorded_at DESC);
`

// NewSqliteStore opens (or creates) the database file and ensures the
// schema exists.
func NewSqliteStore(ctx context.Context, path string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite tolerates one writer; keep the pool at a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Save(ctx context.Context, deviceID string, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves (device_id, blob, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (device_id) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
		deviceID, blob, time.Now())
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func (s *SqliteStore) Load(ctx context.Context, deviceID string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT blob FROM saves WHERE device_id = ?`, deviceID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	return blob, nil
}

func (s *SqliteStore) Delete(ctx context.Context, deviceID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM saves WHERE device_id = ?`, deviceID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func (s *SqliteStore) Append(ctx context.Context, rec RunRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (device_id, name, level, depth, monsters_slain, gold, outcome, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.DeviceID, rec.Name, rec.Level, rec.Depth, rec.MonstersSlain, rec.Gold, rec.Outcome, rec.RecordedAt)
	if err != nil {
		return fmt.Errorf("append run: %w", err)
	}
	return nil
}

func (s *SqliteStore) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT device_id, name, level, depth, monsters_slain, gold, outcome, recorded_at
		FROM leaderboard ORDER BY recorded_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.DeviceID, &rec.Name, &rec.Level, &rec.Depth,
			&rec.MonstersSlain, &rec.Gold, &rec.Outcome, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}
