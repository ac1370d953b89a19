package host

import (
	"sync"

	"github.com/labyrinth/server/internal/engine"
)

// Registry maps device ids to their live games. A device that reconnects
// picks its game up where the last connection left it; saves cover the
// process dying.
type Registry struct {
	mu      sync.Mutex
	games   map[string]*gameSlot
	newGame func(deviceID string) *engine.Game
}

// gameSlot serializes access to one game. Games are single-threaded by
// construction; the lock covers a device connecting twice.
type gameSlot struct {
	mu   sync.Mutex
	game *engine.Game
}

func NewRegistry(newGame func(deviceID string) *engine.Game) *Registry {
	return &Registry{
		games:   make(map[string]*gameSlot),
		newGame: newGame,
	}
}

// Acquire returns the slot for a device, creating the game on first sight.
func (r *Registry) Acquire(deviceID string) (*gameSlot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.games[deviceID]
	if !ok {
		slot = &gameSlot{game: r.newGame(deviceID)}
		r.games[deviceID] = slot
	}
	return slot, !ok
}

// Len reports how many devices have live games.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}
