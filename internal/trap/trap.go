// Package trap resolves sprung floor traps against a character.
package trap

import (
	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/dice"
	"github.com/labyrinth/server/internal/entity"
)

const (
	checkDice  = 5
	checkSides = 4
	dexFloor   = 3
)

// Outcome describes a trap encounter.
type Outcome struct {
	Trap      *data.TrapTemplate
	Dodged    bool
	Damage    int
	GoldLost  int
	DexLost   int
	Poisoned  bool
	RustedArm bool
}

// Spring resolves a trap: a 5d4-plus-half-dexterity check that reaches the
// trap's DC dodges it clean; falling short rolls the trap die for damage
// and applies its side effect.
func Spring(tr *data.TrapTemplate, c *entity.Character, r *dice.Roller) Outcome {
	out := Outcome{Trap: tr}
	roll := r.Roll(checkDice, checkSides) + ceilHalf(c.Attribute("dexterity"))
	if roll >= tr.DC {
		out.Dodged = true
		return out
	}

	if tr.Die != "" {
		dmg, _ := r.RollNotation(tr.Die)
		out.Damage = dmg
		c.TakeDamage(dmg)
	}

	switch tr.Effect {
	case data.TrapGoldDust:
		out.GoldLost = tr.Amount
		if out.GoldLost > c.Gold {
			out.GoldLost = c.Gold
		}
		c.AddGold(-out.GoldLost)
	case data.TrapPoison:
		turns := tr.Duration
		if turns < 1 {
			turns = 3
		}
		if turns > c.PoisonTurns {
			c.PoisonTurns = turns
		}
		out.Poisoned = true
	case data.TrapRustWeapon:
		out.RustedArm = true
	case data.TrapDexDown:
		loss := tr.Amount
		if loss < 1 {
			loss = 1
		}
		cur := c.Attributes["dexterity"]
		if cur-loss < dexFloor {
			loss = cur - dexFloor
		}
		if loss > 0 {
			c.Attributes["dexterity"] -= loss
			out.DexLost = loss
		}
	}
	return out
}

func ceilHalf(v int) int {
	return (v + 1) / 2
}
