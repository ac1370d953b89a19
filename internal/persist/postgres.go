package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labyrinth/server/internal/config"
	"go.uber.org/zap"
)

// PostgresStore persists saves and the leaderboard in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// OpenPostgres dials the database, applies any pending migrations, and
// returns a ready store.
func OpenPostgres(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*PostgresStore, error) {
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &PostgresStore{pool: pool, log: log}, nil
}

func (s *PostgresStore) Save(ctx context.Context, deviceID string, blob []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saves (device_id, blob, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (device_id) DO UPDATE SET blob = $2, updated_at = now()`,
		deviceID, blob)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, deviceID string) ([]byte, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx,
		`SELECT blob FROM saves WHERE device_id = $1`, deviceID).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	return blob, nil
}

func (s *PostgresStore) Delete(ctx context.Context, deviceID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM saves WHERE device_id = $1`, deviceID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, rec RunRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO leaderboard (device_id, name, level, depth, monsters_slain, gold, outcome, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.DeviceID, rec.Name, rec.Level, rec.Depth, rec.MonstersSlain, rec.Gold, rec.Outcome, rec.RecordedAt)
	if err != nil {
		return fmt.Errorf("append run: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT device_id, name, level, depth, monsters_slain, gold, outcome, recorded_at
		FROM leaderboard ORDER BY recorded_at DESC LIMIT $1`, limit)
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

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
