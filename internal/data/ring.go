package data

import (
	"fmt"

	"github.com/labyrinth/server/internal/dice"
)

// AttributeNames lists the seven character attributes in display order.
var AttributeNames = []string{
	"strength",
	"dexterity",
	"constitution",
	"intelligence",
	"wisdom",
	"charisma",
	"perception",
}

// ringCurseChance is the fraction of generated rings that carry a curse.
const ringCurseChance = 0.25

// RingSpec describes a freshly forged magic ring before a character owns it.
// A cursed ring lowers its attribute instead of raising it and cannot be
// removed in town without paying the curse-removal fee.
type RingSpec struct {
	Name      string
	Attribute string
	Bonus     int // negative when cursed
	Cursed    bool
}

// GenerateRing forges a random ring. Bonuses are weighted toward the small
// end: +2 half the time, +3 three times in ten, +4 or +5 otherwise. Cursed
// rings use a gentler penalty band of -1 to -3.
func GenerateRing(r *dice.Roller) RingSpec {
	attr := AttributeNames[r.IntN(len(AttributeNames))]
	cursed := r.Chance(ringCurseChance)

	roll := r.Float64()
	var bonus int
	if cursed {
		switch {
		case roll < 0.5:
			bonus = -1
		case roll < 0.8:
			bonus = -2
		default:
			bonus = -3
		}
	} else {
		switch {
		case roll < 0.5:
			bonus = 2
		case roll < 0.8:
			bonus = 3
		default:
			bonus = r.Between(4, 5)
		}
	}

	name := fmt.Sprintf("Ring of %s", titleCase(attr))
	if cursed {
		name = fmt.Sprintf("Cursed %s", name)
	}
	return RingSpec{Name: name, Attribute: attr, Bonus: bonus, Cursed: cursed}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
