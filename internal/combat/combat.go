package combat

import (
	"math"

	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/dice"
	"github.com/labyrinth/server/internal/entity"
)

// Zones a strike can target. A defender who guesses the attacker's zone
// blocks everything short of a critical.
var Zones = []string{"head", "torso", "legs"}

// Check roll constants. Attack and attribute checks roll 5d4; the extremes
// mark criticals and fumbles on attack rolls only.
const (
	checkDice    = 5
	checkSides   = 4
	critRoll     = 20
	fumbleRoll   = 5
	degradeOdds  = 0.05
	examineDC    = 25
	fleeBaseDC   = 15
	charmBaseDC  = 20
	noWeaponDie     = "1d2" // bare fists
	poisonDie       = "1d4"
	selfInjurySides = 4 // fumble self-injury is 1d4
)

// FormulaOverride lets a scripting layer replace the attack total
// calculation. Implementations return ok=false to fall back to the
// built-in formula.
type FormulaOverride interface {
	PlayerAttackTotal(raw, strength int) (total int, ok bool)
	MonsterAttackTotal(raw, strength int) (total int, ok bool)
}

// State is one fight in progress. Buff fields reset when the fight ends;
// lasting consequences (hp, gold, item damage, poison) live on the
// character.
type State struct {
	Player    *entity.Character
	Monster   *entity.Monster
	R         *dice.Roller
	Overrides FormulaOverride

	PlayerFirst bool

	// Potion buffs for this fight.
	DamageBonus  int  // strength and intelligence draughts
	ExtraAttacks int  // speed draught, swings per turn beyond the first
	ACBonus      int  // protection draught
	Invisible    bool // next monster swing misses

	Examined bool // examine is free but once per fight
	Fled     bool
	Charmed  bool
}

// New starts a fight and rolls initiative. Initiative is 5d4 plus dexterity
// on both sides; the player wins ties.
func New(player *entity.Character, monster *entity.Monster, r *dice.Roller, overrides FormulaOverride) *State {
	st := &State{Player: player, Monster: monster, R: r, Overrides: overrides}
	pRoll := r.Roll(checkDice, checkSides) + player.Attribute("dexterity")
	mRoll := r.Roll(checkDice, checkSides) + monster.DEX
	st.PlayerFirst = pRoll >= mRoll
	return st
}

// PlayerAC is the character's armor class with combat buffs applied.
func (st *State) PlayerAC() int {
	return st.Player.BaseArmorClass() + st.ACBonus
}

// AttackOutcome describes one swing.
type AttackOutcome struct {
	Raw        int
	Total      int
	Crit       bool
	Fumble     bool
	Blocked    bool
	Hit        bool
	Damage     int
	SelfInjury int
	TargetZone string
	BlockZone  string
	Degraded   bool // weapon (player swing) or armor (monster swing) just broke
}

// PlayerAttack resolves one player swing at the chosen zone. The monster
// picks a block zone at random; a matched zone stops anything but a
// critical. A natural 20 crits for half again the damage and ignores the
// block; a natural 5 fumbles for 1d4 self-injury.
func (st *State) PlayerAttack(zone string) AttackOutcome {
	out := AttackOutcome{TargetZone: zone}
	out.Raw = st.R.Roll(checkDice, checkSides)
	out.Crit = out.Raw == critRoll
	out.Fumble = out.Raw == fumbleRoll
	out.BlockZone = Zones[st.R.IntN(len(Zones))]

	str := st.Player.Attribute("strength")
	out.Total = out.Raw + str
	if st.Overrides != nil {
		if total, ok := st.Overrides.PlayerAttackTotal(out.Raw, str); ok {
			out.Total = total
		}
	}

	if out.Fumble {
		out.SelfInjury = st.R.Roll(1, selfInjurySides)
		st.Player.TakeDamage(out.SelfInjury)
		return out
	}
	if !out.Crit && out.Total < st.Monster.EffectiveAC() {
		return out
	}
	if !out.Crit && out.BlockZone == out.TargetZone {
		out.Blocked = true
		out.Degraded = st.degradeWeapon()
		return out
	}

	out.Hit = true
	out.Damage = st.playerDamage(out.Crit)
	st.Monster.TakeDamage(out.Damage)
	out.Degraded = st.degradeWeapon()
	return out
}

// degradeWeapon rolls wear on the equipped weapon. Landed and blocked
// strikes both count; a clean miss never touched anything.
func (st *State) degradeWeapon() bool {
	w := st.Player.EquippedWeaponItem()
	if w == nil || w.Damaged || !st.R.Chance(degradeOdds) {
		return false
	}
	w.Damaged = true
	return true
}

// playerDamage rolls weapon damage plus half strength rounded up plus any
// magic and potion bonuses. A damaged weapon deals half, floored, minimum
// one. Criticals multiply by 1.5 after everything else.
func (st *State) playerDamage(crit bool) int {
	die := noWeaponDie
	bonus := 0
	damaged := false
	if w := st.Player.EquippedWeaponItem(); w != nil {
		die = w.DamageDie
		bonus = w.DamageBonus
		damaged = w.Damaged
	}
	roll, _ := st.R.RollNotation(die)
	dmg := roll + ceilHalf(st.Player.Attribute("strength")) + bonus + st.DamageBonus
	if damaged {
		dmg /= 2
		if dmg < 1 {
			dmg = 1
		}
	}
	if crit {
		dmg = dmg * 3 / 2
	}
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// MonsterAttack resolves one monster swing against the player's chosen
// block zone. Frozen monsters skip the turn; an invisibility draught eats
// the next swing outright. Monster fumbles hurt the monster the same way
// player fumbles hurt the player.
func (st *State) MonsterAttack(blockZone string) AttackOutcome {
	out := AttackOutcome{BlockZone: blockZone}
	if st.Monster.FrozenTurns > 0 {
		st.Monster.FrozenTurns--
		return out
	}
	if st.Invisible {
		st.Invisible = false
		return out
	}

	out.TargetZone = Zones[st.R.IntN(len(Zones))]
	out.Raw = st.R.Roll(checkDice, checkSides)
	out.Crit = out.Raw == critRoll
	out.Fumble = out.Raw == fumbleRoll

	out.Total = out.Raw + st.Monster.STR/2
	if st.Overrides != nil {
		if total, ok := st.Overrides.MonsterAttackTotal(out.Raw, st.Monster.STR); ok {
			out.Total = total
		}
	}

	if out.Fumble {
		out.SelfInjury = st.R.Roll(1, selfInjurySides)
		st.Monster.TakeDamage(out.SelfInjury)
		return out
	}
	if !out.Crit && out.Total < st.PlayerAC() {
		return out
	}
	if !out.Crit && out.TargetZone == blockZone {
		out.Blocked = true
		out.Degraded = st.degradeArmor()
		return out
	}

	out.Hit = true
	roll, _ := st.R.RollNotation(st.Monster.DamageDie)
	dmg := roll - st.Monster.DamagePenalty
	if dmg < 1 {
		dmg = 1
	}
	if out.Crit {
		dmg = dmg * 3 / 2
		if dmg < 1 {
			dmg = 1
		}
	}
	out.Damage = dmg
	st.Player.TakeDamage(dmg)
	out.Degraded = st.degradeArmor()
	return out
}

// degradeArmor rolls wear on the equipped armor after it caught a hit or
// a blocked strike.
func (st *State) degradeArmor() bool {
	a := st.Player.EquippedArmorItem()
	if a == nil || a.Damaged || !st.R.Chance(degradeOdds) {
		return false
	}
	a.Damaged = true
	return true
}

// CompanionAttack resolves the companion's swing after the player acts.
func (st *State) CompanionAttack() AttackOutcome {
	cp := st.Player.Companion
	out := AttackOutcome{}
	if cp == nil || cp.HP <= 0 || !st.Monster.Alive() {
		return out
	}
	out.Raw = st.R.Roll(1, 20)
	out.Total = out.Raw + cp.STR
	if out.Total <= st.Monster.EffectiveAC() {
		return out
	}
	out.Hit = true
	roll, _ := st.R.RollNotation(cp.DamageDie)
	out.Damage = roll
	st.Monster.TakeDamage(roll)
	return out
}

// Examine reveals the monster's description on a successful wisdom check.
// It costs no turn but works once per fight.
func (st *State) Examine() (success, alreadyUsed bool) {
	if st.Examined {
		return false, true
	}
	st.Examined = true
	roll := st.R.Roll(checkDice, checkSides) + st.Player.Attribute("wisdom")
	return roll > examineDC, false
}

// Flee attempts to escape: 5d4 plus half dexterity rounded up against 15
// plus half the monster's dexterity rounded up.
func (st *State) Flee() bool {
	roll := st.R.Roll(checkDice, checkSides) + ceilHalf(st.Player.Attribute("dexterity"))
	dc := fleeBaseDC + ceilHalf(st.Monster.DEX)
	if roll > dc {
		st.Fled = true
		return true
	}
	return false
}

// CharmResult reports a charm attempt.
type CharmResult struct {
	Success bool
	Immune  bool
	XP      int
	Gold    int
}

// Charm talks the monster down: 5d4 plus half charisma rounded up against
// 20 plus half the monster's difficulty. Dragons do not listen. Success
// awards a quarter of the depth-scaled rewards.
func (st *State) Charm(depth int) CharmResult {
	if st.Monster.Name == data.DragonName {
		return CharmResult{Immune: true}
	}
	roll := st.R.Roll(checkDice, checkSides) + ceilHalf(st.Player.Attribute("charisma"))
	dc := charmBaseDC + st.Monster.Difficulty/2
	if roll < dc {
		return CharmResult{}
	}
	st.Charmed = true
	mult := DepthMultiplier(depth)
	xp := int(math.Floor(float64(st.Monster.XP) * mult * 0.25))
	gold := st.R.Between(st.Monster.GoldMin, st.Monster.GoldMax)
	gold = int(math.Floor(float64(gold) * mult * 0.25))
	st.Player.GainXP(xp)
	st.Player.AddGold(gold)
	return CharmResult{Success: true, XP: xp, Gold: gold}
}

// DivineOutcome reports a plea for divine aid.
type DivineOutcome struct {
	Roll        int
	Damage      int
	AlreadyUsed bool
}

// Divine calls down a smite: 5d4 plus wisdom surplus over 10. Twelve or
// better strikes the monster for 3d6, sixteen or better for 4d6. Either
// way the plea spends the turn and the monster acts afterward; the gods
// listen once per depth.
func (st *State) Divine() DivineOutcome {
	if st.Player.DivinedThisDepth {
		return DivineOutcome{AlreadyUsed: true}
	}
	st.Player.DivinedThisDepth = true
	roll := st.R.Roll(checkDice, checkSides) + st.Player.Attribute("wisdom") - 10
	out := DivineOutcome{Roll: roll}
	switch {
	case roll >= 16:
		out.Damage = st.R.Roll(4, 6)
	case roll >= 12:
		out.Damage = st.R.Roll(3, 6)
	}
	if out.Damage > 0 {
		st.Monster.TakeDamage(out.Damage)
	}
	return out
}

// PoisonTick applies one turn of poison damage, if any remains. Returns the
// damage dealt.
func (st *State) PoisonTick() int {
	if st.Player.PoisonTurns <= 0 {
		return 0
	}
	st.Player.PoisonTurns--
	dmg, _ := st.R.RollNotation(poisonDie)
	st.Player.TakeDamage(dmg)
	return dmg
}

// DepthMultiplier scales rewards with labyrinth depth.
func DepthMultiplier(depth int) float64 {
	if depth < 1 {
		depth = 1
	}
	return 1 + 0.5*float64(depth-1)
}

// Rewards is what a defeated monster yields before drops.
type Rewards struct {
	XP           int
	Gold         int
	LevelsGained int
}

// Victory grants depth-scaled experience and gold for the slain monster and
// updates run statistics.
func (st *State) Victory(depth int) Rewards {
	mult := DepthMultiplier(depth)
	xp := int(math.Floor(float64(st.Monster.XP) * mult))
	gold := st.R.Between(st.Monster.GoldMin, st.Monster.GoldMax)
	gold = int(math.Floor(float64(gold) * mult))
	levels := st.Player.GainXP(xp)
	st.Player.AddGold(gold)
	st.Player.MonstersSlain++
	return Rewards{XP: xp, Gold: gold, LevelsGained: levels}
}

func ceilHalf(v int) int {
	return (v + 1) / 2
}
