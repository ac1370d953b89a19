package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/labyrinth/server/internal/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMonsterTable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "monsters.yaml", `
monsters:
  - name: Goblin
    hp: 12
    armor_class: 11
    strength: 8
    dexterity: 12
    damage_die: 1d6
    xp: 10
    gold_min: 2
    gold_max: 12
    wander_chance: 0.30
    difficulty: 1
  - name: Dragon
    hp: 135
    armor_class: 31
    strength: 22
    dexterity: 18
    damage_die: 8d7
    xp: 500
    gold_min: 200
    gold_max: 600
    wander_chance: 0
    difficulty: 20
`)
	table, err := LoadMonsterTable(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())

	goblin := table.Get("Goblin")
	require.NotNil(t, goblin)
	assert.Equal(t, 12, goblin.HP)
	assert.Equal(t, "1d6", goblin.DamageDie)

	dragon := table.Get(DragonName)
	require.NotNil(t, dragon)
	assert.Equal(t, 135, dragon.HP)
	assert.Equal(t, 31, dragon.AC)

	assert.Nil(t, table.Get("Lich"))
}

func TestPickWandererNeverDragon(t *testing.T) {
	path := writeFile(t, t.TempDir(), "monsters.yaml", `
monsters:
  - name: Goblin
    hp: 12
    wander_chance: 0.10
  - name: Skeleton
    hp: 18
    wander_chance: 0.10
  - name: Dragon
    hp: 135
    wander_chance: 0.90
`)
	table, err := LoadMonsterTable(path)
	require.NoError(t, err)

	r := dice.NewSeeded(11)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		m := table.PickWanderer(r)
		require.NotNil(t, m)
		seen[m.Name] = true
	}
	assert.False(t, seen[DragonName])
	assert.True(t, seen["Goblin"])
	assert.True(t, seen["Skeleton"])
}

func TestQuestTargets(t *testing.T) {
	path := writeFile(t, t.TempDir(), "monsters.yaml", `
monsters:
  - name: Goblin
    wander_chance: 0.30
  - name: Evil Necromancer
    wander_chance: 0.01
  - name: Dragon
    wander_chance: 0.50
`)
	table, err := LoadMonsterTable(path)
	require.NoError(t, err)

	targets := table.QuestTargets()
	require.Len(t, targets, 1)
	assert.Equal(t, "Goblin", targets[0].Name)
}

func TestGearShopAndDrops(t *testing.T) {
	dir := t.TempDir()
	wpath := writeFile(t, dir, "weapons.yaml", `
weapons:
  - name: Dagger
    damage_die: 1d4
    price: 10
    availability: shop
  - name: Flame Blade
    damage_die: 2d6
    price: 0
    chance: 0.6
    availability: labyrinth
  - name: Frost Axe
    damage_die: 2d8
    price: 0
    chance: 0.4
    availability: labyrinth
`)
	weapons, err := LoadWeaponTable(wpath)
	require.NoError(t, err)

	stock := weapons.ShopStock()
	require.Len(t, stock, 1)
	assert.Equal(t, "Dagger", stock[0].Name)

	r := dice.NewSeeded(5)
	seen := map[string]int{}
	for i := 0; i < 1000; i++ {
		d := weapons.PickDrop(r)
		require.NotNil(t, d)
		seen[d.Name]++
	}
	assert.Zero(t, seen["Dagger"])
	assert.Greater(t, seen["Flame Blade"], seen["Frost Axe"])

	apath := writeFile(t, dir, "armors.yaml", `
armors:
  - name: Leather
    armor_class: 2
    price: 25
    availability: shop
`)
	armors, err := LoadArmorTable(apath)
	require.NoError(t, err)
	assert.Len(t, armors.ShopStock(), 1)
	assert.Nil(t, armors.PickDrop(r)) // no labyrinth armor in this table
}

func TestDialogueLine(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "dialogue")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "town.yaml", `
lines:
  healer_greet:
    - "Welcome, {name}. You look pale."
  tavern_greet:
    - "First round is on you."
    - "Mind the drunk in the corner."
`)
	table, err := LoadDialogueTable(sub)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count())

	r := dice.NewSeeded(2)
	line := table.Line(r, "town", "healer_greet", map[string]string{"name": "Ashe"})
	assert.Equal(t, "Welcome, Ashe. You look pale.", line)

	assert.True(t, table.Has("town", "tavern_greet"))
	assert.False(t, table.Has("town", "nonexistent"))
	assert.Equal(t, "nonexistent", table.Line(r, "town", "nonexistent", nil))
}

func TestDialogueMissingDir(t *testing.T) {
	table, err := LoadDialogueTable(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Count())
}

func TestGenerateRing(t *testing.T) {
	r := dice.NewSeeded(17)
	sawCursed := false
	sawBlessed := false
	for i := 0; i < 500; i++ {
		ring := GenerateRing(r)
		assert.Contains(t, AttributeNames, ring.Attribute)
		if ring.Cursed {
			sawCursed = true
			assert.GreaterOrEqual(t, ring.Bonus, -3)
			assert.LessOrEqual(t, ring.Bonus, -1)
			assert.Contains(t, ring.Name, "Cursed")
		} else {
			sawBlessed = true
			assert.GreaterOrEqual(t, ring.Bonus, 2)
			assert.LessOrEqual(t, ring.Bonus, 5)
		}
	}
	assert.True(t, sawCursed)
	assert.True(t, sawBlessed)
}
