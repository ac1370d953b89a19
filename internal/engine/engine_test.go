package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/labyrinth/server/internal/combat"
	"github.com/labyrinth/server/internal/config"
	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/dice"
	"github.com/labyrinth/server/internal/entity"
	"github.com/labyrinth/server/internal/labyrinth"
	"github.com/labyrinth/server/internal/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTables(t *testing.T) *data.Tables {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"monsters.yaml": `
monsters:
  - name: Training Dummy
    hp: 5
    armor_class: 1
    strength: 1
    dexterity: 1
    damage_die: 1d2
    xp: 10
    gold_min: 5
    gold_max: 5
    wander_chance: 0.90
    difficulty: 1
  - name: Dragon
    hp: 135
    armor_class: 31
    strength: 22
    dexterity: 18
    damage_die: 8d7
    xp: 1000
    gold_min: 500
    gold_max: 1500
    wander_chance: 0
    difficulty: 20
`,
		"weapons.yaml": `
weapons:
  - name: Dagger
    damage_die: 1d4
    price: 10
    availability: shop
  - name: Serpent Blade
    damage_die: 2d8
    chance: 1.0
    availability: labyrinth
`,
		"armors.yaml": `
armors:
  - name: Leather Armor
    armor_class: 4
    price: 40
    availability: shop
  - name: Wyrmscale Hauberk
    armor_class: 10
    chance: 1.0
    availability: labyrinth
`,
		"potions.yaml": `
potions:
  - name: Healing Draught
    effect: healing
    price: 25
  - name: Antidote
    effect: antidote
    price: 20
`,
		"spells.yaml": `
spells:
  - name: Magic Missile
    effect: damage
    die: 2d6
    price: 30
  - name: Word of Return
    effect: escape
    price: 90
`,
		"traps.yaml": `
traps:
  - name: Spike Pit
    dc: 18
    die: 2d6
    effect: rust_weapon
`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	tables, err := data.LoadTables(dir, zap.NewNop())
	require.NoError(t, err)
	return tables
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := New("device-1", testTables(t), nil,
		persist.NewMemoryStore(),
		persist.NewReviewSubmitter(config.ReviewsConfig{}, zap.NewNop()),
		zap.NewNop())
	g.R = dice.NewSeeded(7)
	return g
}

func testChar(attr int) *entity.Character {
	attrs := make(map[string]int, len(data.AttributeNames))
	for _, name := range data.AttributeNames {
		attrs[name] = attr
	}
	return entity.NewCharacter("Rowan", entity.DifficultyNormal, attrs, dice.NewSeeded(3))
}

func menuIDs(items []MenuItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestNewGameFlow(t *testing.T) {
	g := newTestGame(t)
	g.Start()
	assert.Contains(t, menuIDs(g.lastMenu), "new_game")
	assert.NotContains(t, menuIDs(g.lastMenu), "continue")

	g.HandleAction(Action{Name: "new_game"})
	require.Equal(t, PhaseDifficulty, g.Phase)
	g.HandleAction(Action{Name: "normal"})
	require.Equal(t, PhaseIntro, g.Phase)
	g.HandleAction(Action{Name: "continue"})
	require.Equal(t, PhaseCreateName, g.Phase)
	assert.Equal(t, "name", g.lastPrompt)

	g.HandleAction(Action{Name: "name", Value: "Rowan"})
	require.Equal(t, PhaseCreateAttr, g.Phase)
	require.Positive(t, g.pendingRoll)

	// Assign each roll; the final roll takes the leftover attribute.
	for len(g.unassigned) > 0 {
		g.HandleAction(Action{Name: g.unassigned[0]})
	}
	for _, name := range data.AttributeNames {
		assert.Positive(t, g.rolledAttrs[name], name)
	}
	assert.Contains(t, menuIDs(g.lastMenu), "accept")

	g.HandleAction(Action{Name: "reroll"})
	require.Equal(t, PhaseCreateAttr, g.Phase)
	for len(g.unassigned) > 0 {
		g.HandleAction(Action{Name: g.unassigned[0]})
	}

	g.HandleAction(Action{Name: "accept"})
	require.Equal(t, PhaseTown, g.Phase)
	require.NotNil(t, g.Char)
	assert.Equal(t, "Rowan", g.Char.Name)
	assert.Equal(t, 1, g.Char.Level)
	assert.Positive(t, g.Char.MaxHP)
	assert.Positive(t, g.Char.Gold)

	// Character creation writes the first save.
	_, err := g.Store.Load(context.Background(), g.DeviceID)
	assert.NoError(t, err)
}

func TestNameValidation(t *testing.T) {
	g := newTestGame(t)
	g.Phase = PhaseCreateName
	g.HandleAction(Action{Name: "name", Value: "   "})
	assert.Equal(t, PhaseCreateName, g.Phase)
	g.HandleAction(Action{Name: "name", Value: "this name is far too long to accept"})
	assert.Equal(t, PhaseCreateName, g.Phase)
	g.HandleAction(Action{Name: "name", Value: "Rowan"})
	assert.Equal(t, PhaseCreateAttr, g.Phase)
}

func TestTownServiceOncePerVisit(t *testing.T) {
	g := newTestGame(t)
	g.Char = testChar(10)
	g.Char.Gold = 100
	g.Char.HP = 1
	g.enterTown()
	g.Flush()

	g.HandleAction(Action{Name: "eat"})
	assert.Equal(t, 90, g.Char.Gold)

	g.HandleAction(Action{Name: "eat"})
	assert.Equal(t, 90, g.Char.Gold, "second meal this visit must not charge")

	// Leaving for the labyrinth and coming back resets the visit.
	g.HandleAction(Action{Name: "labyrinth"})
	g.HandleAction(Action{Name: "town"})
	require.Equal(t, PhaseTown, g.Phase)
	g.HandleAction(Action{Name: "eat"})
	assert.Equal(t, 80, g.Char.Gold)
}

func TestTavernOncePerVisit(t *testing.T) {
	g := newTestGame(t)
	g.Char = testChar(10)
	g.Char.Gold = 100
	g.Char.HP = 1
	g.enterTown()

	g.HandleAction(Action{Name: "tavern"})
	assert.Equal(t, 90, g.Char.Gold)

	g.HandleAction(Action{Name: "tavern"})
	assert.Equal(t, 90, g.Char.Gold, "one round per visit is the house rule")

	// The tavern and the cookhouse keep separate tabs.
	g.HandleAction(Action{Name: "eat"})
	assert.Equal(t, 80, g.Char.Gold)
}

func TestTrainingPerDiscipline(t *testing.T) {
	g := newTestGame(t)
	c := testChar(10)
	c.Gold = 500
	g.Char = c
	g.enterTown()

	g.HandleAction(Action{Name: "training"})
	require.Equal(t, PhaseTraining, g.Phase)

	g.HandleAction(Action{Name: "strength"})
	assert.Equal(t, 11, c.Attributes["strength"])
	assert.Equal(t, 450, c.Gold)

	// A repeat in the same discipline costs double; a fresh one starts at 50.
	g.HandleAction(Action{Name: "strength"})
	assert.Equal(t, 12, c.Attributes["strength"])
	assert.Equal(t, 350, c.Gold)
	g.HandleAction(Action{Name: "wisdom"})
	assert.Equal(t, 11, c.Attributes["wisdom"])
	assert.Equal(t, 300, c.Gold)

	c.AttributeTraining = map[string]int{"strength": 7}
	g.trainingMenu()
	assert.Equal(t, []string{"back"}, menuIDs(g.lastMenu), "a spent cap closes the grounds")
}

func TestCorridorChestWaitsForTheKill(t *testing.T) {
	g := newTestGame(t)
	c := testChar(10)
	c.Gold = 0
	g.Char = c
	g.Phase = PhaseLabyrinth

	ring := entity.Ring{Name: "Ring of Strength", Attribute: "strength", Bonus: 2}
	g.room = &labyrinth.Room{Chest: &labyrinth.Chest{Gold: 40, Ring: &ring}}

	g.corridorMenu()
	assert.NotContains(t, menuIDs(g.lastMenu), "open_chest", "the occupant still stands")

	c.DepthCleared = true
	g.corridorMenu()
	require.Contains(t, menuIDs(g.lastMenu), "open_chest")

	g.HandleAction(Action{Name: "open_chest"})
	assert.Equal(t, 40, c.Gold)
	require.Len(t, c.Rings, 1)
	assert.Equal(t, "Ring of Strength", c.Rings[0].Name)
	assert.True(t, c.Rings[0].Equipped, "rings bind the moment they are picked up")
	assert.Equal(t, 12, c.Attribute("strength"))
	assert.True(t, g.room.Chest.Opened)
	assert.NotContains(t, menuIDs(g.lastMenu), "open_chest", "a chest opens once")
}

func TestHealerFullHealAndCleanse(t *testing.T) {
	g := newTestGame(t)
	g.Char = testChar(10)
	g.Char.Gold = 100
	g.Char.HP = 3
	g.Char.PoisonTurns = 4
	g.enterTown()

	g.HandleAction(Action{Name: "healer"})
	assert.Equal(t, g.Char.MaxHP, g.Char.HP)
	assert.Zero(t, g.Char.PoisonTurns)
	assert.Equal(t, 60, g.Char.Gold)

	// No per-visit limit: a fresh wound gets healed again.
	g.Char.HP = 5
	g.HandleAction(Action{Name: "healer"})
	assert.Equal(t, g.Char.MaxHP, g.Char.HP)
	assert.Equal(t, 20, g.Char.Gold)
}

func driveCombat(t *testing.T, g *Game, limit int) {
	t.Helper()
	for i := 0; i < limit && g.Phase == PhaseCombat; i++ {
		switch g.combatStage {
		case "action":
			g.HandleAction(Action{Name: "attack"})
		case "zone":
			g.HandleAction(Action{Name: "head"})
		case "block":
			g.HandleAction(Action{Name: "torso"})
		default:
			t.Fatalf("unexpected combat stage %q", g.combatStage)
		}
		g.Flush()
	}
}

func TestCombatVictory(t *testing.T) {
	g := newTestGame(t)
	c := testChar(20)
	c.Weapons = []entity.Weapon{{Name: "Sword", DamageDie: "2d6", Price: 25}}
	c.EquippedWeapon = 0
	c.Depth = 2
	c.Gold = 0
	c.XP = 0
	g.Char = c

	dummy := g.Tables.Monsters.Get("Training Dummy")
	require.NotNil(t, dummy)
	g.startCombat(labyrinth.Room{Monster: entity.NewMonster(dummy)})
	g.Flush()

	driveCombat(t, g, 200)
	require.Equal(t, PhaseLabyrinth, g.Phase)
	assert.Nil(t, g.Fight)
	assert.Equal(t, 1, c.MonstersSlain)
	assert.True(t, c.DepthCleared, "a kill opens the way down")
	// Depth 2 multiplies the dummy's 10 xp and 5 gold by 1.5.
	assert.Equal(t, 15, c.XP)
	assert.Equal(t, 7, c.Gold)
}

func TestCombatQuestCredit(t *testing.T) {
	g := newTestGame(t)
	c := testChar(20)
	c.Weapons = []entity.Weapon{{Name: "Sword", DamageDie: "2d6", Price: 25}}
	c.EquippedWeapon = 0
	c.Quests = []entity.Quest{{Kind: entity.QuestKill, Target: "Training Dummy", Goal: 1, Reward: 30}}
	c.Gold = 0
	g.Char = c

	dummy := g.Tables.Monsters.Get("Training Dummy")
	g.startCombat(labyrinth.Room{Monster: entity.NewMonster(dummy)})
	driveCombat(t, g, 200)

	require.Equal(t, PhaseLabyrinth, g.Phase)
	assert.Empty(t, c.Quests, "the contract pays out on the spot")
	assert.Equal(t, 1, c.QuestsCompleted)
	// Victory gold (5 at depth 1) plus the 30-gold bounty.
	assert.Equal(t, 35, c.Gold)
}

func TestCombatFleeOrExamineKeepPhase(t *testing.T) {
	g := newTestGame(t)
	g.Char = testChar(10)
	dummy := g.Tables.Monsters.Get("Training Dummy")
	g.startCombat(labyrinth.Room{Monster: entity.NewMonster(dummy)})

	if g.combatStage == "block" {
		g.HandleAction(Action{Name: "torso"})
	}
	require.Equal(t, "action", g.combatStage)

	// Examine costs no turn: the action menu comes straight back.
	g.HandleAction(Action{Name: "examine"})
	assert.Equal(t, "action", g.combatStage)
	assert.True(t, g.Fight.Examined)

	// Second examine is refused but still free.
	g.HandleAction(Action{Name: "examine"})
	assert.Equal(t, "action", g.combatStage)
}

func TestEscapeScrollReturnsToTown(t *testing.T) {
	g := newTestGame(t)
	c := testChar(10)
	c.AddScroll("Word of Return", 1)
	g.Char = c

	dummy := g.Tables.Monsters.Get("Training Dummy")
	g.startCombat(labyrinth.Room{Monster: entity.NewMonster(dummy)})
	if g.combatStage == "block" {
		g.HandleAction(Action{Name: "torso"})
	}
	require.Equal(t, "action", g.combatStage)

	g.HandleAction(Action{Name: "spell"})
	require.Equal(t, "spell", g.combatStage)
	g.HandleAction(Action{Name: "cast_Word of Return"})

	assert.Equal(t, PhaseTown, g.Phase)
	assert.Nil(t, g.Fight)
	assert.Zero(t, c.SpellUses["Word of Return"])
	assert.Zero(t, c.XP, "escape earns nothing")
}

func TestRevivalSuccess(t *testing.T) {
	g := newTestGame(t)
	c := testChar(5)
	c.Attributes["wisdom"] = 30 // 5d4+30 always clears the first-death DC of 20
	c.Depth = 4
	c.HP = 0
	g.Char = c
	g.saveGame()

	dummy := g.Tables.Monsters.Get("Training Dummy")
	g.Fight = combat.New(c, entity.NewMonster(dummy), g.R, nil)
	g.playerDied()

	require.Equal(t, PhaseRevival, g.Phase)
	assert.Equal(t, 1, c.DeathCount)
	assert.Equal(t, 1, c.HP)
	assert.True(t, c.PendingReset)
	assert.Equal(t, 29, c.Attributes["wisdom"], "every attribute pays the toll")
	assert.Equal(t, 4, c.Attributes["strength"])

	g.HandleAction(Action{Name: "continue"})
	require.Equal(t, PhaseTown, g.Phase)
	assert.Equal(t, 1, c.Depth, "revival resets progress to the first depth")
}

func TestRevivalAttributeFloor(t *testing.T) {
	g := newTestGame(t)
	c := testChar(3)
	c.Attributes["wisdom"] = 30
	c.HP = 0
	g.Char = c
	g.playerDied()

	require.Equal(t, PhaseRevival, g.Phase)
	assert.Equal(t, 3, c.Attributes["strength"], "attributes never drop below three")
}

func TestRevivalFailureEndsRun(t *testing.T) {
	g := newTestGame(t)
	c := testChar(3)
	c.DeathCount = 5 // the sixth death asks for 45, unreachable with 5d4+3
	c.HP = 0
	g.Char = c
	g.saveGame()

	g.playerDied()
	require.Equal(t, PhaseRevival, g.Phase)
	assert.True(t, g.revivalFail)

	_, err := g.Store.Load(context.Background(), g.DeviceID)
	assert.True(t, errors.Is(err, persist.ErrNotFound), "the save is wiped")

	runs, err := g.Store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "death", runs[0].Outcome)
	assert.Equal(t, "Rowan", runs[0].Name)

	g.HandleAction(Action{Name: "continue"})
	assert.Equal(t, PhaseMainMenu, g.Phase)
	assert.Nil(t, g.Char)
}

func TestBossVictory(t *testing.T) {
	g := newTestGame(t)
	c := testChar(20)
	c.Weapons = []entity.Weapon{{Name: "Sword", DamageDie: "2d6", Price: 25}}
	c.EquippedWeapon = 0
	g.Char = c
	g.saveGame()

	// A stand-in boss weak enough to beat deterministically.
	dummy := g.Tables.Monsters.Get("Training Dummy")
	g.startCombat(labyrinth.Room{Monster: entity.NewMonster(dummy), Boss: true})
	g.Flush()

	driveCombat(t, g, 200)
	require.Equal(t, PhaseVictory, g.Phase)

	runs, err := g.Store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "victory", runs[0].Outcome)

	_, err = g.Store.Load(context.Background(), g.DeviceID)
	assert.NoError(t, err, "a won run's save is committed, not wiped")

	g.HandleAction(Action{Name: "continue"})
	assert.Equal(t, PhaseMainMenu, g.Phase)
	assert.Nil(t, g.Char)
}

func TestSpeedChargeBuysOneExtraSwing(t *testing.T) {
	g := newTestGame(t)
	c := testChar(10)
	c.MaxHP, c.HP = 400, 400
	g.Char = c

	dragon := g.Tables.Monsters.Get("Dragon")
	require.NotNil(t, dragon)
	g.startCombat(labyrinth.Room{Monster: entity.NewMonster(dragon), Boss: true})
	if g.combatStage == "block" {
		g.HandleAction(Action{Name: "torso"})
	}
	require.Equal(t, "action", g.combatStage)

	g.Fight.ExtraAttacks = 1
	g.HandleAction(Action{Name: "attack"})
	g.HandleAction(Action{Name: "head"})

	assert.Zero(t, g.Fight.ExtraAttacks, "the draught pays for one extra swing, not the whole fight")
}

func TestShopBuyAndSell(t *testing.T) {
	g := newTestGame(t)
	g.Char = testChar(10)
	g.Char.Gold = 100
	g.enterTown()

	g.HandleAction(Action{Name: "shop"})
	require.Equal(t, PhaseShop, g.Phase)
	g.HandleAction(Action{Name: "weapons"})
	g.HandleAction(Action{Name: "buy_0"})
	require.Len(t, g.Char.Weapons, 1)
	assert.Equal(t, "Dagger", g.Char.Weapons[0].Name)
	assert.Equal(t, 90, g.Char.Gold)

	g.HandleAction(Action{Name: "back"})
	g.HandleAction(Action{Name: "sell"})
	assert.Contains(t, menuIDs(g.lastMenu), "sell_w0")

	g.HandleAction(Action{Name: "sell_w0"})
	require.Equal(t, "sell_confirm", g.shopMode)
	require.Positive(t, g.salePrice)
	assert.Less(t, g.salePrice, 10, "the shop buys below list price")

	goldBefore := g.Char.Gold
	g.HandleAction(Action{Name: "agree"})
	assert.Empty(t, g.Char.Weapons)
	assert.Equal(t, goldBefore+g.salePrice, g.Char.Gold)
}

func TestShopRefusesEquippedAndDamaged(t *testing.T) {
	g := newTestGame(t)
	c := testChar(10)
	c.Weapons = []entity.Weapon{
		{Name: "Wielded", DamageDie: "1d6", Price: 20},
		{Name: "Broken", DamageDie: "1d6", Price: 20, Damaged: true},
		{Name: "Spare", DamageDie: "1d6", Price: 20},
	}
	c.EquippedWeapon = 0
	g.Char = c
	g.enterTown()
	g.HandleAction(Action{Name: "shop"})
	g.HandleAction(Action{Name: "sell"})

	ids := menuIDs(g.lastMenu)
	assert.NotContains(t, ids, "sell_w0")
	assert.NotContains(t, ids, "sell_w1")
	assert.Contains(t, ids, "sell_w2")
}

func TestShopRefusesForgedSellIds(t *testing.T) {
	g := newTestGame(t)
	c := testChar(10)
	c.Weapons = []entity.Weapon{
		{Name: "Wielded", DamageDie: "1d6", Price: 20},
		{Name: "Broken", DamageDie: "1d6", Price: 20, Damaged: true},
	}
	c.EquippedWeapon = 0
	c.Rings = []entity.Ring{{Name: "Cursed Band", Attribute: "strength", Bonus: -1, Cursed: true, Equipped: true}}
	g.Char = c
	g.enterTown()
	g.HandleAction(Action{Name: "shop"})
	g.HandleAction(Action{Name: "sell"})

	// Hand-crafted ids for items the list never offered.
	for _, id := range []string{"sell_w0", "sell_w1", "sell_r0", "sell_w-1", "sell_w9"} {
		g.HandleAction(Action{Name: id})
		assert.Equal(t, "sell", g.shopMode, "%s must not reach the haggle step", id)
	}
	assert.Len(t, c.Weapons, 2)
	assert.Len(t, c.Rings, 1)
	assert.Equal(t, 0, c.EquippedWeapon)
}

func TestGambleResolves(t *testing.T) {
	g := newTestGame(t)
	g.Char = testChar(10)
	g.Char.Gold = 50
	g.enterTown()
	g.HandleAction(Action{Name: "gambling"})
	require.Equal(t, PhaseGambling, g.Phase)

	g.HandleAction(Action{Name: "d6"})
	require.Equal(t, "bet", g.gambleStage)
	ids := menuIDs(g.lastMenu)
	assert.Contains(t, ids, "add_10")
	assert.NotContains(t, ids, "add_100", "a raise the purse cannot cover is not offered")
	assert.NotContains(t, ids, "ok", "nothing to stake yet")

	// A refused raise and a premature confirm leave the stake alone.
	g.HandleAction(Action{Name: "add_100"})
	assert.Zero(t, g.gambleBet)
	g.HandleAction(Action{Name: "ok"})
	require.Equal(t, "bet", g.gambleStage)

	g.HandleAction(Action{Name: "add_5"})
	g.HandleAction(Action{Name: "add_5"})
	require.Equal(t, 10, g.gambleBet)
	g.HandleAction(Action{Name: "ok"})
	require.Equal(t, "guess", g.lastPrompt)

	g.HandleAction(Action{Name: "guess", Value: "4"})
	assert.Empty(t, g.gambleGame, "the table resets after the roll")
	won := g.Char.Gold == 50+30
	lost := g.Char.Gold == 50-10
	assert.True(t, won || lost, "gold moved by the stake or the payout, got %d", g.Char.Gold)
}

func TestCompanionCare(t *testing.T) {
	g := newTestGame(t)
	c := testChar(10)
	c.Companion = &entity.Companion{Name: "Wolf", HP: 5, MaxHP: 20, AC: 11, STR: 10, DamageDie: "3d6"}
	c.AddPotion("Healing Draught", 1)
	g.Char = c
	g.enterTown()

	g.HandleAction(Action{Name: "companion"})
	require.Equal(t, PhaseCompanion, g.Phase)
	require.Contains(t, menuIDs(g.lastMenu), "heal_companion")

	g.HandleAction(Action{Name: "rename"})
	require.Equal(t, "companion_name", g.lastPrompt)
	g.HandleAction(Action{Name: "companion_name", Value: "Biscuit"})
	assert.Equal(t, "Biscuit", c.Companion.Name)

	g.HandleAction(Action{Name: "heal_companion"})
	assert.Greater(t, c.Companion.HP, 5)
	assert.Zero(t, c.Potions["Healing Draught"])
	assert.Equal(t, 1, c.PotionsUsed)

	// With the flask empty the option disappears.
	assert.NotContains(t, menuIDs(g.lastMenu), "heal_companion")
}

func TestInventoryEquipToggle(t *testing.T) {
	g := newTestGame(t)
	c := testChar(10)
	c.Weapons = []entity.Weapon{{Name: "Dagger", DamageDie: "1d4", Price: 10}}
	c.Rings = []entity.Ring{{Name: "Cursed Band", Attribute: "strength", Bonus: -1, Cursed: true}}
	g.Char = c
	g.enterTown()
	g.HandleAction(Action{Name: "inventory"})
	require.Equal(t, PhaseInventory, g.Phase)

	g.HandleAction(Action{Name: "w_0"})
	assert.Equal(t, 0, c.EquippedWeapon)
	g.HandleAction(Action{Name: "w_0"})
	assert.Equal(t, -1, c.EquippedWeapon)

	g.HandleAction(Action{Name: "r_0"})
	assert.True(t, c.Rings[0].Equipped)
	g.HandleAction(Action{Name: "r_0"})
	assert.True(t, c.Rings[0].Equipped, "a cursed ring will not come off")
}

func TestTempleCleanseUnbindsRing(t *testing.T) {
	g := newTestGame(t)
	c := testChar(10)
	c.Gold = 50
	c.BindRing(entity.Ring{Name: "Leaden Band", Attribute: "constitution", Bonus: 2, Cursed: true})
	maxWithRing := c.MaxHP
	g.Char = c
	g.enterTown()

	g.HandleAction(Action{Name: "temple"})
	require.Equal(t, PhaseTemple, g.Phase)
	require.Contains(t, menuIDs(g.lastMenu), "uncurse_0")

	g.HandleAction(Action{Name: "uncurse_0"})
	assert.False(t, c.Rings[0].Cursed)
	assert.False(t, c.Rings[0].Equipped)
	assert.Equal(t, maxWithRing-10, c.MaxHP, "the cleansed ring takes its constitution with it")
	assert.Equal(t, 40, c.Gold)
}

func TestReviewFlowUnconfigured(t *testing.T) {
	g := newTestGame(t)
	g.Start()
	g.HandleAction(Action{Name: "review"})
	require.Equal(t, PhaseReview, g.Phase)

	g.HandleAction(Action{Name: "4"})
	assert.Equal(t, 4, g.reviewRating)
	assert.Equal(t, "review_text", g.lastPrompt)

	g.HandleAction(Action{Name: "review_text", Value: "Dark. Damp. Would die again."})
	assert.Equal(t, PhaseMainMenu, g.Phase)
	assert.Zero(t, g.reviewRating)
}

func TestUnknownActionRedisplays(t *testing.T) {
	g := newTestGame(t)
	g.Char = testChar(10)
	g.enterTown()
	g.Flush()

	g.HandleAction(Action{Name: "definitely_not_a_button"})
	events := g.Flush()
	require.NotEmpty(t, events)
	assert.Equal(t, EventMenu, events[len(events)-1].Type)
}

func TestRedisplayAfterReconnect(t *testing.T) {
	g := newTestGame(t)
	g.Char = testChar(10)
	g.enterTown()
	g.Flush()

	g.Redisplay()
	events := g.Flush()
	require.NotEmpty(t, events)
	assert.Equal(t, EventMenu, events[len(events)-1].Type)
	assert.Equal(t, PhaseTown, g.Phase)
}

func TestContinueRestoresSave(t *testing.T) {
	g := newTestGame(t)
	g.Char = testChar(10)
	g.Char.Gold = 77
	g.saveGame()
	g.Char = nil

	g.Start()
	assert.Contains(t, menuIDs(g.lastMenu), "continue")
	g.HandleAction(Action{Name: "continue"})
	require.Equal(t, PhaseTown, g.Phase)
	require.NotNil(t, g.Char)
	assert.Equal(t, 77, g.Char.Gold)
}
