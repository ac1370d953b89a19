// Package persist stores save games and the leaderboard behind a driver
// chosen at boot: postgres, sqlite, or memory.
package persist

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that no save exists for a device.
var ErrNotFound = errors.New("save not found")

// SaveStore keeps one serialized character per device.
type SaveStore interface {
	Save(ctx context.Context, deviceID string, blob []byte) error
	Load(ctx context.Context, deviceID string) ([]byte, error)
	Delete(ctx context.Context, deviceID string) error
}

// RunRecord is one finished run on the leaderboard.
type RunRecord struct {
	DeviceID      string
	Name          string
	Level         int
	Depth         int
	MonstersSlain int
	Gold          int
	Outcome       string // "victory" or "death"
	RecordedAt    time.Time
}

// Leaderboard records finished runs and serves the most recent ones.
type Leaderboard interface {
	Append(ctx context.Context, rec RunRecord) error
	Recent(ctx context.Context, limit int) ([]RunRecord, error)
}

// Store bundles both persistence concerns behind one driver.
type Store interface {
	SaveStore
	Leaderboard
	Close() error
}
