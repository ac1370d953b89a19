// Package labyrinth generates what the next room holds.
package labyrinth

import (
	"strings"

	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/dice"
	"github.com/labyrinth/server/internal/entity"
)

const (
	// DragonDepth is where the Dragon always waits.
	DragonDepth = 5
	// dragonEncounter forces the Dragon on long grinds regardless of depth.
	dragonEncounter = 50

	chestOdds = 0.25
	trapOdds  = 0.20

	chestGoldLo   = 10
	chestGoldHi   = 100
	chestRingOdds = 0.50

	listenDC = 25
)

// Backgrounds the renderer knows. Opaque strings; the scene event carries
// them through unchanged.
const (
	bgDefault = "labyrinth.png"
	bgDragon  = "labyrinth/dragon_lair.png"
	bgCrypt   = "labyrinth/crypt.png"
	bgWebs    = "labyrinth/webs.png"
	bgSewer   = "labyrinth/sewer.png"
	bgCavern  = "labyrinth/cavern.png"
)

// Chest is the loot a room may hold once its occupant is dealt with.
type Chest struct {
	Gold   int
	Ring   *entity.Ring
	Opened bool
}

// Room is one generated labyrinth room: a monster always, loot and a trap
// sometimes. Rooms are ephemeral; the engine keeps only the current one.
type Room struct {
	Monster    *entity.Monster
	Boss       bool // this is the Dragon
	Chest      *Chest
	Trap       *data.TrapTemplate
	Background string
}

// Next rolls the room behind the next door. The Dragon preempts everything
// at its depth and on the fiftieth engaged monster; every other room gets a
// wandering monster, a quarter of them a chest, a fifth of them a trap. A
// monster foreseen by an earlier listen is honored and consumed.
func Next(c *entity.Character, tables *data.Tables, r *dice.Roller) Room {
	c.EncounterCount++

	if c.Depth >= DragonDepth || c.EncounterCount >= dragonEncounter {
		if t := tables.Monsters.Get(data.DragonName); t != nil {
			c.PeekedNext = ""
			mon := entity.NewMonster(t)
			return Room{Monster: mon, Boss: true, Background: bgDragon}
		}
	}

	var mon *entity.Monster
	if c.PeekedNext != "" {
		if t := tables.Monsters.Get(c.PeekedNext); t != nil {
			mon = entity.NewMonster(t)
		}
		c.PeekedNext = ""
	}
	if mon == nil {
		if t := tables.Monsters.PickWanderer(r); t != nil {
			mon = entity.NewMonster(t)
		}
	}

	room := Room{Monster: mon, Background: backgroundFor(mon)}
	if r.Chance(chestOdds) {
		chest := &Chest{Gold: r.Between(chestGoldLo, chestGoldHi)}
		if r.Chance(chestRingOdds) {
			ring := entity.NewRing(data.GenerateRing(r))
			chest.Ring = &ring
		}
		room.Chest = chest
	}
	if r.Chance(trapOdds) {
		room.Trap = tables.Traps.RandomPick(r)
	}
	return room
}

// backgroundFor maps a room's occupant to a scene background by keyword.
func backgroundFor(mon *entity.Monster) string {
	if mon == nil {
		return bgDefault
	}
	text := strings.ToLower(mon.Name + " " + mon.Description)
	switch {
	case hasAny(text, "skeleton", "zombie", "ghoul", "ghost", "wight", "grave"):
		return bgCrypt
	case hasAny(text, "spider", "web"):
		return bgWebs
	case hasAny(text, "rat", "slime", "ooze", "sewer"):
		return bgSewer
	case hasAny(text, "troll", "bear", "bat", "cave"):
		return bgCavern
	default:
		return bgDefault
	}
}

func hasAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// ListenOutcome reports pressing an ear to the door.
type ListenOutcome struct {
	Success     bool
	AlreadyUsed bool
	Monster     string // foreseen monster, kept for the next monster room
	Sound       string // what the player is told
}

// Listen strains to hear what prowls ahead: 5d4 plus perception against 25,
// once per depth. Success pre-rolls the next monster and reveals its sound.
func Listen(c *entity.Character, tables *data.Tables, r *dice.Roller) ListenOutcome {
	if c.ListenedThisDepth {
		return ListenOutcome{AlreadyUsed: true}
	}
	c.ListenedThisDepth = true
	roll := r.Roll(5, 4) + c.Attribute("perception")
	if roll <= listenDC {
		return ListenOutcome{}
	}
	t := tables.Monsters.PickWanderer(r)
	if t == nil {
		return ListenOutcome{}
	}
	c.PeekedNext = t.Name
	out := ListenOutcome{Success: true, Monster: t.Name, Sound: t.Sound}
	if out.Sound == "" {
		out.Sound = "something shuffling in the dark"
	}
	return out
}
