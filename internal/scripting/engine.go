package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for tunable game formulas. The VM is
// shared by every session, and LState is not goroutine-safe, so all calls
// into it serialize on mu.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. A missing directory is fine; every formula then uses its
// built-in fallback.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	if err := e.loadDir(filepath.Join(scriptsDir, "combat")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load combat scripts: %w", err)
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// PlayerAttackTotal calls the Lua calc_player_attack function, if a script
// defines one. ok=false means no override is installed and the built-in
// formula applies.
func (e *Engine) PlayerAttackTotal(raw, strength int) (int, bool) {
	return e.attackTotal("calc_player_attack", raw, strength)
}

// MonsterAttackTotal calls the Lua calc_monster_attack function, if a
// script defines one.
func (e *Engine) MonsterAttackTotal(raw, strength int) (int, bool) {
	return e.attackTotal("calc_monster_attack", raw, strength)
}

func (e *Engine) attackTotal(name string, raw, strength int) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return 0, false
	}

	t := e.vm.NewTable()
	t.RawSetString("raw", lua.LNumber(raw))
	t.RawSetString("strength", lua.LNumber(strength))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua attack formula error", zap.String("func", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua attack formula returned non-table", zap.String("func", name))
		return 0, false
	}
	return lInt(rt, "total"), true
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}
