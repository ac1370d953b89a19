package combat

import (
	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/entity"
)

const (
	dropBaseChance = 0.05
	dropPerDiff    = 0.01
	dropCap        = 0.20
	magicGearOdds  = 0.25
)

// Drop is anything a slain monster leaves behind.
type Drop struct {
	Potion *data.PotionTemplate
	Scroll *data.SpellTemplate
	Ring   *entity.Ring
	Weapon *entity.Weapon
	Armor  *entity.Armor
}

// Empty reports whether nothing dropped.
func (d Drop) Empty() bool {
	return d.Potion == nil && d.Scroll == nil && d.Ring == nil && d.Weapon == nil && d.Armor == nil
}

// consumableOdds grows with monster difficulty, capped at one in five.
func consumableOdds(difficulty int) float64 {
	p := dropBaseChance + dropPerDiff*float64(difficulty)
	if p > dropCap {
		p = dropCap
	}
	return p
}

// RollDrops decides what the defeated monster leaves: an independent
// difficulty-scaled chance each for a potion and a scroll, and a flat
// quarter chance of magic gear split ring-heavy.
func (st *State) RollDrops(tables *data.Tables) Drop {
	var d Drop
	odds := consumableOdds(st.Monster.Difficulty)

	if st.R.Chance(odds) {
		if all := tables.Potions.All(); len(all) > 0 {
			d.Potion = all[st.R.IntN(len(all))]
		}
	}
	if st.R.Chance(odds) {
		if all := tables.Spells.All(); len(all) > 0 {
			d.Scroll = all[st.R.IntN(len(all))]
		}
	}
	if st.R.Chance(magicGearOdds) {
		switch roll := st.R.Float64(); {
		case roll < 0.40:
			ring := entity.NewRing(data.GenerateRing(st.R))
			d.Ring = &ring
		case roll < 0.70:
			if t := tables.Armors.PickDrop(st.R); t != nil {
				a := entity.NewArmor(t)
				a.Magic = true
				a.ACBonus = st.R.Between(1, 3)
				d.Armor = &a
			}
		default:
			if t := tables.Weapons.PickDrop(st.R); t != nil {
				w := entity.NewWeapon(t)
				w.Magic = true
				w.DamageBonus = st.R.Between(1, 3)
				d.Weapon = &w
			}
		}
	}
	return d
}
