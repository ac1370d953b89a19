package scripting

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMissingScriptDirUsesFallbacks(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "missing"), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	_, ok := e.PlayerAttackTotal(12, 10)
	assert.False(t, ok, "no script installed, built-in formula applies")
	_, ok = e.MonsterAttackTotal(12, 10)
	assert.False(t, ok)
}

func TestScriptOverridesAttackFormula(t *testing.T) {
	dir := t.TempDir()
	script := `
function calc_player_attack(ctx)
    return { total = ctx.raw + ctx.strength * 2 }
end
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formulas.lua"), []byte(script), 0o644))

	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	total, ok := e.PlayerAttackTotal(12, 10)
	require.True(t, ok)
	assert.Equal(t, 32, total)

	_, ok = e.MonsterAttackTotal(12, 10)
	assert.False(t, ok, "only the player formula is overridden")
}

func TestConcurrentSessionsShareOneEngine(t *testing.T) {
	dir := t.TempDir()
	script := `
function calc_player_attack(ctx)
    return { total = ctx.raw + ctx.strength }
end
function calc_monster_attack(ctx)
    return { total = ctx.raw + ctx.strength }
end
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formulas.lua"), []byte(script), 0o644))

	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for s := 0; s < 8; s++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				raw, str := 5+(seed+i)%16, 3+(seed*i)%18
				total, ok := e.PlayerAttackTotal(raw, str)
				if !ok || total != raw+str {
					errs <- "player total corrupted"
					return
				}
				total, ok = e.MonsterAttackTotal(raw, str)
				if !ok || total != raw+str {
					errs <- "monster total corrupted"
					return
				}
			}
		}(s)
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("this is not lua ("), 0o644))

	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}
