package combat

import (
	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/entity"
)

// PotionOutcome reports drinking a potion in combat.
type PotionOutcome struct {
	Effect     string
	Healed     int
	CuredTurns int  // poison turns cleared by an antidote
	FreeAction bool // antidotes do not cost the turn
}

// DrinkPotion applies a potion's effect. The caller has already consumed
// the dose from the character's stock.
func (st *State) DrinkPotion(p *data.PotionTemplate) PotionOutcome {
	out := PotionOutcome{Effect: p.Effect}
	switch p.Effect {
	case data.PotionHealing:
		amount := ceilHalf(st.Player.Attribute("constitution")) * st.R.Roll(2, 2)
		out.Healed = st.Player.Heal(amount)
	case data.PotionStrength:
		st.DamageBonus += 2
	case data.PotionIntelligence:
		st.DamageBonus++
	case data.PotionSpeed:
		st.ExtraAttacks++
	case data.PotionProtection:
		st.ACBonus += 3
	case data.PotionInvisibility:
		st.Invisible = true
	case data.PotionAntidote:
		out.CuredTurns = st.Player.PoisonTurns
		st.Player.PoisonTurns = 0
		out.FreeAction = true
	}
	return out
}

// SpellOutcome reports a casting.
type SpellOutcome struct {
	Effect    string
	Damage    int
	Resisted  int // damage absorbed by spell resistance
	Healed    int
	FullForce bool // split-damage spell landed at full strength
	Escaped   bool
	Summon    *SummonOutcome
}

// CastSpell resolves a scroll against the current monster. The caller has
// already consumed the scroll. For split-damage spells fullPower picks the
// unrestrained die over the controlled half die; other effects ignore it.
func (st *State) CastSpell(s *data.SpellTemplate, fullPower bool) SpellOutcome {
	out := SpellOutcome{Effect: s.Effect}
	switch s.Effect {
	case data.SpellDamage:
		roll, _ := st.R.RollNotation(s.Die)
		out.Damage, out.Resisted = st.applySpellDamage(roll)
	case data.SpellSplitDamage:
		die := s.HalfDie
		if fullPower {
			die = s.Die
			out.FullForce = true
		}
		roll, _ := st.R.RollNotation(die)
		out.Damage, out.Resisted = st.applySpellDamage(roll)
	case data.SpellHeal:
		roll, _ := st.R.RollNotation(s.Die)
		out.Healed = st.Player.Heal(roll)
	case data.SpellFreeze:
		turns := s.Amount
		if turns < 1 {
			turns = 1
		}
		st.Monster.FrozenTurns += turns
	case data.SpellVulnerability:
		st.Monster.ACPenalty += s.Amount
	case data.SpellWeakness:
		st.Monster.DamagePenalty += s.Amount
	case data.SpellSummon:
		so := st.SummonCompanion()
		out.Summon = &so
	case data.SpellEscape:
		out.Escaped = true
	}
	return out
}

// applySpellDamage subtracts the monster's spell resistance and deals the
// remainder.
func (st *State) applySpellDamage(roll int) (dealt, resisted int) {
	resisted = st.Monster.SpellResistance
	if resisted > roll {
		resisted = roll
	}
	dealt = roll - resisted
	st.Monster.TakeDamage(dealt)
	return dealt, resisted
}

// Summoning tiers. The check is 5d4 plus half the caster's intelligence
// and charisma surplus over 10.
type summonTier struct {
	threshold int
	names     []string
	damageDie string
	hpLo      int
	hpHi      int
	acLo      int
	acHi      int
	strLo     int
	strHi     int
}

var summonTiers = []summonTier{
	{16, []string{"Lion", "Bear", "Tiger"}, "4d6", 50, 75, 12, 14, 12, 15},
	{12, []string{"Wolf", "Panther", "Eagle"}, "3d6", 30, 50, 10, 12, 10, 12},
	{8, []string{"Dog", "Cat", "Owl"}, "2d6", 15, 30, 8, 10, 8, 10},
}

// SummonOutcome reports a summoning attempt.
type SummonOutcome struct {
	Success   bool
	Roll      int
	Companion *entity.Companion
}

// SummonCompanion attempts to call a creature. A stronger check brings a
// stronger beast; below the lowest tier nothing answers. The new companion
// replaces any existing one.
func (st *State) SummonCompanion() SummonOutcome {
	roll := st.R.Roll(checkDice, checkSides) +
		(st.Player.Attribute("intelligence")-10)/2 +
		(st.Player.Attribute("charisma")-10)/2
	out := SummonOutcome{Roll: roll}
	for _, tier := range summonTiers {
		if roll < tier.threshold {
			continue
		}
		hp := st.R.Between(tier.hpLo, tier.hpHi)
		cp := &entity.Companion{
			Name:      tier.names[st.R.IntN(len(tier.names))],
			HP:        hp,
			MaxHP:     hp,
			AC:        st.R.Between(tier.acLo, tier.acHi),
			STR:       st.R.Between(tier.strLo, tier.strHi),
			DamageDie: tier.damageDie,
		}
		st.Player.Companion = cp
		out.Success = true
		out.Companion = cp
		return out
	}
	return out
}
