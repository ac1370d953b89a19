package entity

import "github.com/labyrinth/server/internal/data"

// Monster is a live combat instance built from a template. Debuff fields are
// per-fight and never persisted.
type Monster struct {
	Name            string
	HP              int
	MaxHP           int
	AC              int
	STR             int
	DEX             int
	DamageDie       string
	XP              int
	GoldMin         int
	GoldMax         int
	Difficulty      int
	SpellResistance int
	Sound           string
	Description     string

	FrozenTurns   int
	ACPenalty     int
	DamagePenalty int
}

// NewMonster instantiates a fresh monster from its template.
func NewMonster(t *data.MonsterTemplate) *Monster {
	return &Monster{
		Name:            t.Name,
		HP:              t.HP,
		MaxHP:           t.HP,
		AC:              t.AC,
		STR:             t.STR,
		DEX:             t.DEX,
		DamageDie:       t.DamageDie,
		XP:              t.XP,
		GoldMin:         t.GoldMin,
		GoldMax:         t.GoldMax,
		Difficulty:      t.Difficulty,
		SpellResistance: t.SpellResistance,
		Sound:           t.Sound,
		Description:     t.Description,
	}
}

// EffectiveAC is the monster's armor after vulnerability debuffs, floored
// at one.
func (m *Monster) EffectiveAC() int {
	ac := m.AC - m.ACPenalty
	if ac < 1 {
		ac = 1
	}
	return ac
}

// TakeDamage reduces hit points, never below zero. Reports whether the
// monster still stands.
func (m *Monster) TakeDamage(amount int) bool {
	if amount > 0 {
		m.HP -= amount
		if m.HP < 0 {
			m.HP = 0
		}
	}
	return m.HP > 0
}

// Alive reports whether the monster has hit points left.
func (m *Monster) Alive() bool {
	return m.HP > 0
}
