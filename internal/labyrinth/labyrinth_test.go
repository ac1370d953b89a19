package labyrinth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/dice"
	"github.com/labyrinth/server/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTables(t *testing.T) *data.Tables {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("monsters.yaml", `
monsters:
  - name: Goblin
    hp: 12
    armor_class: 11
    wander_chance: 0.5
    sound: "skittering claws"
  - name: Skeleton
    hp: 18
    armor_class: 12
    wander_chance: 0.5
    sound: "rattling bones"
  - name: Dragon
    hp: 135
    armor_class: 31
    wander_chance: 0
`)
	write("traps.yaml", `
traps:
  - name: Dart Trap
    dc: 15
    die: 1d6
    effect: poison
    duration: 3
`)

	monsters, err := data.LoadMonsterTable(filepath.Join(dir, "monsters.yaml"))
	require.NoError(t, err)
	traps, err := data.LoadTrapTable(filepath.Join(dir, "traps.yaml"))
	require.NoError(t, err)
	return &data.Tables{Monsters: monsters, Traps: traps}
}

func testChar() *entity.Character {
	attrs := map[string]int{
		"strength": 10, "dexterity": 10, "constitution": 10,
		"intelligence": 10, "wisdom": 10, "charisma": 10, "perception": 10,
	}
	return entity.NewCharacter("Ashe", entity.DifficultyNormal, attrs, dice.NewSeeded(1))
}

func TestNextRoomMix(t *testing.T) {
	tables := testTables(t)
	r := dice.NewSeeded(2)

	var chests, rings, traps, both int
	for i := 0; i < 1000; i++ {
		c := testChar()
		room := Next(c, tables, r)
		require.NotNil(t, room.Monster, "every room has an occupant")
		assert.False(t, room.Boss)
		assert.NotEqual(t, data.DragonName, room.Monster.Name)
		assert.NotEmpty(t, room.Background)

		if room.Chest != nil {
			chests++
			assert.GreaterOrEqual(t, room.Chest.Gold, chestGoldLo)
			assert.LessOrEqual(t, room.Chest.Gold, chestGoldHi)
			assert.False(t, room.Chest.Opened)
			if room.Chest.Ring != nil {
				rings++
			}
		}
		if room.Trap != nil {
			traps++
		}
		if room.Chest != nil && room.Trap != nil {
			both++
		}
	}
	assert.InDelta(t, 250, chests, 80)
	assert.InDelta(t, 200, traps, 80)
	assert.InDelta(t, chests/2, rings, 70, "half the chests carry a ring")
	assert.Greater(t, both, 0, "loot and a trap can share a room")
}

func TestDragonForcedAtDepth(t *testing.T) {
	tables := testTables(t)
	r := dice.NewSeeded(3)
	c := testChar()
	c.Depth = DragonDepth

	room := Next(c, tables, r)
	require.NotNil(t, room.Monster)
	assert.True(t, room.Boss)
	assert.Equal(t, data.DragonName, room.Monster.Name)
	assert.Equal(t, 135, room.Monster.HP)
	assert.Nil(t, room.Chest, "the lair holds no side loot")
	assert.Nil(t, room.Trap)
}

func TestDragonForcedOnFiftiethEncounter(t *testing.T) {
	tables := testTables(t)
	r := dice.NewSeeded(4)
	c := testChar()
	c.EncounterCount = 49

	room := Next(c, tables, r)
	assert.True(t, room.Boss)
	assert.Equal(t, 50, c.EncounterCount)
}

func TestPeekedMonsterIsHonored(t *testing.T) {
	tables := testTables(t)
	r := dice.NewSeeded(5)

	for i := 0; i < 200; i++ {
		c := testChar()
		c.PeekedNext = "Skeleton"
		room := Next(c, tables, r)
		require.NotNil(t, room.Monster)
		assert.Equal(t, "Skeleton", room.Monster.Name)
		assert.Empty(t, c.PeekedNext, "the preview is consumed")
	}
}

func TestBackgroundForOccupant(t *testing.T) {
	skeleton := entity.NewMonster(&data.MonsterTemplate{Name: "Skeleton", HP: 18})
	assert.Equal(t, bgCrypt, backgroundFor(skeleton))

	spider := entity.NewMonster(&data.MonsterTemplate{
		Name: "Lurker", HP: 20, Description: "It waits in a funnel of webs.",
	})
	assert.Equal(t, bgWebs, backgroundFor(spider))

	plain := entity.NewMonster(&data.MonsterTemplate{Name: "Bandit", HP: 25})
	assert.Equal(t, bgDefault, backgroundFor(plain))
	assert.Equal(t, bgDefault, backgroundFor(nil))
}

func TestListen(t *testing.T) {
	tables := testTables(t)

	c := testChar()
	c.Attributes["perception"] = 50
	out := Listen(c, tables, dice.NewSeeded(6))
	require.True(t, out.Success, "perception 50 cannot fail")
	assert.NotEmpty(t, out.Sound)
	assert.Equal(t, out.Monster, c.PeekedNext)

	out = Listen(c, tables, dice.NewSeeded(7))
	assert.True(t, out.AlreadyUsed)

	deaf := testChar()
	deaf.Attributes["perception"] = 3
	out = Listen(deaf, tables, dice.NewSeeded(8))
	assert.False(t, out.Success, "perception 3 cannot beat 25")
	assert.Empty(t, deaf.PeekedNext)
}
